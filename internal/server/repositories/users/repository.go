package users

import (
	"context"

	"github.com/dmitrijs2005/usersvc/internal/server/models"
)

// Repository is the credential store. It is the only writer of the users
// table and carries no business rules.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}
