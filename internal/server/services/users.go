package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
)

// UpdateInput carries the fields a caller wants to change; nil means keep.
// Password is plaintext and is rehashed before storage.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// UserService reads and mutates user records. Every mutation passes
// Authorize before the store is touched.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, logger logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	out := make([]*models.User, len(list))
	for i, u := range list {
		out[i] = u.Public()
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "error getting user")
	}
	return u.Public(), nil
}

// Update applies in to user id on behalf of principal.
func (s *UserService) Update(ctx context.Context, principal *models.Principal, id int64, in UpdateInput) (*models.User, error) {
	if err := Authorize(principal, id, in.Role != nil); err != nil {
		s.logger.Warn(ctx, "update denied", "actor_id", actorID(principal), "target_id", id, "error", err)
		return nil, err
	}

	upd := models.UserUpdate{Role: in.Role}
	if in.Role != nil {
		if _, err := models.ParseRole(string(*in.Role)); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrValidation, err)
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		upd.Name = &name
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		upd.Email = &email
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", common.ErrValidation)
	}

	u, err := s.repomanager.Users(s.db).Update(ctx, id, upd)
	if err != nil {
		return nil, mapStoreError(err, "error updating user")
	}

	s.logger.Info(ctx, "user updated", "actor_id", principal.ID, "target_id", id, "password_changed", in.Password != nil)
	return u.Public(), nil
}

// Delete removes user id on behalf of principal and returns the removed row.
func (s *UserService) Delete(ctx context.Context, principal *models.Principal, id int64) (*models.User, error) {
	if err := Authorize(principal, id, false); err != nil {
		s.logger.Warn(ctx, "delete denied", "actor_id", actorID(principal), "target_id", id, "error", err)
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).Delete(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "error deleting user")
	}

	s.logger.Info(ctx, "user deleted", "actor_id", principal.ID, "target_id", id)
	return u.Public(), nil
}

func mapStoreError(err error, op string) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrUserNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return common.ErrDuplicateEmail
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func actorID(p *models.Principal) any {
	if p == nil {
		return nil
	}
	return p.ID
}
