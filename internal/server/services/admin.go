package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
)

// EnsureAdmin creates an admin account, or promotes the existing account
// with that email and resets its password. It runs in one transaction and
// reports whether a new row was inserted.
func EnsureAdmin(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher, name, email, password string) (*models.User, bool, error) {
	email = NormalizeEmail(email)

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, err
	}

	var (
		user    *models.User
		created bool
	)
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.Users(tx)

		existing, err := repo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error looking up user: %w", err)
		}

		if existing == nil {
			user, err = repo.Create(ctx, &models.User{
				Name:         strings.TrimSpace(name),
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("error creating admin: %w", err)
			}
			created = true
			return nil
		}

		role := models.RoleAdmin
		user, err = repo.Update(ctx, existing.ID, models.UserUpdate{Role: &role, PasswordHash: &hash})
		if err != nil {
			return fmt.Errorf("error promoting user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return user.Public(), created, nil
}
