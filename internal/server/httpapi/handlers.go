// Package httpapi is the public HTTP surface of authkeeper: a gin router with
// sign-up, sign-in and sign-out endpoints that carry the token in a cookie.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is the part of services.UserService the handlers use.
type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.PublicUser, error)
	Authenticate(ctx context.Context, creds services.Credentials) (*models.PublicUser, error)
}

// Tokens issues and verifies access tokens. *auth.TokenIssuer implements it.
type Tokens interface {
	Issue(claims auth.Claims) (string, error)
	Verify(token string) (*auth.Claims, error)
	Validity() time.Duration
}

type Handler struct {
	users   UserService
	tokens  Tokens
	cookies *CookieCarrier
	log     logging.Logger
}

func NewHandler(users UserService, tokens Tokens, cookies *CookieCarrier, log logging.Logger) *Handler {
	return &Handler{
		users:   users,
		tokens:  tokens,
		cookies: cookies,
		log:     log.With("module", "http_api"),
	}
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72,bcryptlen"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toUserResponse(u *models.PublicUser) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// SignUp registers a user and signs them in.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, toValidationError(err))
		return
	}

	u, err := h.users.Signup(c.Request.Context(), services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.issueCookie(c, u) {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered", "user": toUserResponse(u)})
}

// SignIn checks credentials and sets the token cookie.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, toValidationError(err))
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), services.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.writeError(c, err)
		return
	}

	if !h.issueCookie(c, u) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User signed in successfully", "user": toUserResponse(u)})
}

// SignOut clears the token cookie. It succeeds whether or not one was sent.
func (h *Handler) SignOut(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "User signed out successfully"})
}

// Me echoes the identity carried by the verified token.
func (h *Handler) Me(c *gin.Context) {
	claims, ok := claimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgUnauthorized})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse{ID: claims.ID, Email: claims.Email, Role: claims.Role}})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) issueCookie(c *gin.Context, u *models.PublicUser) bool {
	token, err := h.tokens.Issue(auth.Claims{ID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		h.writeError(c, err)
		return false
	}
	h.cookies.Attach(c, token)
	return true
}
