// Package services contains server-side business logic: account signup and
// signin, user management guarded by the authorization policy, and the admin
// bootstrap used by the admin CLI.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
)

// PasswordHasher is satisfied by auth.BcryptHasher.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

// SignupInput is a validated signup request. An empty Role means RoleUser.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// NormalizeEmail is applied to every email before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		logger:      logger,
	}
}

// Signup creates an account and returns it without the password hash.
// A taken email yields common.ErrDuplicateEmail, whether it is caught by the
// lookup or by the store's unique constraint.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Warn(ctx, "signup rejected: email taken", "email", email)
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			s.logger.Warn(ctx, "signup rejected by unique constraint", "email", email)
			return nil, common.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user.Public(), nil
}

// Signin checks credentials. An unknown email and a wrong password both give
// common.ErrInvalidCredentials; the unknown-email path still runs one bcrypt
// comparison so the two take similar time.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnComparison(password)
			s.logger.Warn(ctx, "authentication failed: unknown email", "email", email)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn(ctx, "authentication failed: wrong password", "email", email)
		return nil, common.ErrInvalidCredentials
	}

	s.logger.Info(ctx, "user authenticated", "user_id", user.ID, "role", user.Role)
	return user.Public(), nil
}

func (s *AuthService) burnComparison(password string) {
	s.decoyOnce.Do(func() {
		s.decoyHash, _ = s.hasher.Hash("decoy-password")
	})
	if s.decoyHash != "" {
		_, _ = s.hasher.Verify(password, s.decoyHash)
	}
}
