// Package auth implements the credential hasher and the token issuer used by
// the authentication flow.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity attributes embedded in an access token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type tokenClaims struct {
	Claims
	jwt.RegisteredClaims
}

// GenerateToken signs claims with HS256. The token expires validity after
// issuedAt.
func GenerateToken(claims Claims, secretKey []byte, issuer string, issuedAt time.Time, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Claims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   claims.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(validity)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature, algorithm, issuer and expiry and returns the
// embedded claims. Every failure matches common.ErrInvalidToken; an expired
// token also matches common.ErrTokenExpired.
func ParseToken(tokenString string, secretKey []byte, issuer string, now func() time.Time) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	tc := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, tc, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || tc.Claims.ID == "" {
		return nil, common.ErrInvalidToken
	}

	claims := tc.Claims
	return &claims, nil
}

// TokenIssuer binds the signing secret and expiry policy.
type TokenIssuer struct {
	secretKey []byte
	issuer    string
	validity  time.Duration
	now       func() time.Time
}

// NewTokenIssuer returns an issuer for HS256 tokens valid for validity.
func NewTokenIssuer(secretKey string, issuer string, validity time.Duration) (*TokenIssuer, error) {
	if secretKey == "" {
		return nil, errors.New("token issuer: empty secret key")
	}
	if validity <= 0 {
		return nil, errors.New("token issuer: validity must be positive")
	}
	return &TokenIssuer{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		validity:  validity,
		now:       time.Now,
	}, nil
}

// Validity is the lifetime of issued tokens.
func (i *TokenIssuer) Validity() time.Duration { return i.validity }

// Issue signs claims.
func (i *TokenIssuer) Issue(claims Claims) (string, error) {
	return GenerateToken(claims, i.secretKey, i.issuer, i.now(), i.validity)
}

// Verify checks token and returns its claims.
func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	return ParseToken(token, i.secretKey, i.issuer, i.now)
}
