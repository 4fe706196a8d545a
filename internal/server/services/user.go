// Package services contains server-side business logic. This file implements
// UserService, which registers users and checks their credentials.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// SignupInput is what a new account is created from.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Credentials is a sign-in attempt.
type Credentials struct {
	Email    string
	Password string
}

// UserService provides authentication-related operations:
// - Signup: create users with a unique email
// - Authenticate: verify an email/password pair
// - EnsureUser: create a user unless the email is taken (bootstrap, CLI)
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService. A nil logger discards output.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, log logging.Logger) *UserService {
	if log == nil {
		log = logging.Nop()
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		log:         log.With("component", "user_service"),
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases email so that
// lookups and the unique constraint see one spelling per address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in SignupInput) normalized() SignupInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = common.RoleUser
	}
	return in
}

func (in SignupInput) validate() error {
	var fields []common.FieldError
	if in.Name == "" {
		fields = append(fields, common.FieldError{Field: "name", Message: "is required"})
	}
	if in.Email == "" {
		fields = append(fields, common.FieldError{Field: "email", Message: "is required"})
	}
	if in.Password == "" {
		fields = append(fields, common.FieldError{Field: "password", Message: "is required"})
	}
	if in.Role != common.RoleUser && in.Role != common.RoleAdmin {
		fields = append(fields, common.FieldError{Field: "role", Message: "must be one of: user admin"})
	}
	if len(fields) > 0 {
		return &common.ValidationError{Fields: fields}
	}
	return nil
}

// Signup creates a user. An email that is already registered yields
// common.ErrDuplicateUser whatever the password.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.PublicUser, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		s.log.Warn(ctx, "signup rejected", "email", in.Email, "err", err)
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetUserByEmail(ctx, in.Email)
	switch {
	case err == nil:
		s.log.Info(ctx, "signup for existing email", "email", in.Email)
		return nil, common.ErrDuplicateUser
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "signup lookup failed", "email", in.Email, "err", err)
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	u, err := s.create(ctx, repo, in)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return u.Public(), nil
}

func (s *UserService) create(ctx context.Context, repo users.Repository, in SignupInput) (*models.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "email", in.Email, "err", err)
		return nil, err
	}

	u, err := repo.Create(ctx, &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			// lost a race with a concurrent signup for the same email
			s.log.Info(ctx, "signup conflict on insert", "email", in.Email)
			return nil, common.ErrDuplicateUser
		}
		s.log.Error(ctx, "user insert failed", "email", in.Email, "err", err)
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Authenticate checks creds. Unknown email and wrong password both yield
// common.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, creds Credentials) (*models.PublicUser, error) {
	email := NormalizeEmail(creds.Email)

	u, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so unknown emails take as long as known ones
			s.compareDummy(creds.Password)
			s.log.Info(ctx, "signin failed", "reason", "unknown email")
			return nil, common.ErrInvalidCredentials
		}
		s.log.Error(ctx, "signin lookup failed", "email", email, "err", err)
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(creds.Password, u.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "password verification failed", "user_id", u.ID, "err", err)
		return nil, err
	}
	if !ok {
		s.log.Info(ctx, "signin failed", "reason", "password mismatch", "user_id", u.ID)
		return nil, common.ErrInvalidCredentials
	}

	s.log.Info(ctx, "user signed in", "user_id", u.ID)
	return u.Public(), nil
}

func (s *UserService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("authkeeper-dummy-password")
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// EnsureUser creates the user described by in unless its email is already
// registered, in which case the stored user is returned unchanged and created
// is false. Lookup and insert share one transaction.
func (s *UserService) EnsureUser(ctx context.Context, in SignupInput) (user *models.PublicUser, created bool, err error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return nil, false, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetUserByEmail(ctx, in.Email)
		if err == nil {
			user = existing.Public()
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error looking up user: %w", err)
		}

		u, err := s.create(ctx, repo, in)
		if err != nil {
			return err
		}
		user, created = u.Public(), true
		return nil
	})
	if err != nil {
		s.log.Error(ctx, "ensure user failed", "email", in.Email, "err", err)
		return nil, false, err
	}

	if created {
		s.log.Info(ctx, "user provisioned", "user_id", user.ID, "role", user.Role)
	} else {
		s.log.Debug(ctx, "user already present", "user_id", user.ID)
	}
	return user, created, nil
}
