// Package userstest provides an in-memory users.Repository and a matching
// RepositoryManager for tests of the layers above the store.
package userstest

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/dbx"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users"
)

// Repo mimics the Postgres repository, including the unique constraint on
// email. Setting Err makes every call fail with it.
type Repo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User

	Err error
	// Inserts counts successful Create calls.
	Inserts int
	// HideEmailOnRead makes FindByEmail miss, so only the unique constraint
	// can catch a duplicate.
	HideEmailOnRead bool
}

func NewRepo() *Repo {
	return &Repo{rows: make(map[int64]models.User)}
}

// Seed stores u as-is (ID assigned if zero) and returns the stored copy.
func (r *Repo) Seed(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.rows[u.ID] = u
	return &u
}

// Count returns the number of stored rows.
func (r *Repo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Repo) emailTaken(email string, except int64) bool {
	for id, u := range r.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *Repo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.emailTaken(user.Email, 0) {
		return nil, common.ErrorAlreadyExists
	}
	r.nextID++
	user.ID = r.nextID
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.rows[user.ID] = *user
	r.Inserts++
	return user, nil
}

func (r *Repo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.HideEmailOnRead {
		return nil, common.ErrorNotFound
	}
	for _, u := range r.rows {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *Repo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *Repo) List(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*models.User, 0, len(r.rows))
	for _, u := range r.rows {
		c := u
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) Update(_ context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Email != nil && r.emailTaken(*upd.Email, id) {
		return nil, common.ErrorAlreadyExists
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = time.Now().UTC()
	r.rows[id] = u
	return &u, nil
}

func (r *Repo) Delete(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.rows, id)
	return &u, nil
}

// Manager returns Repo for every DBTX and skips migrations.
type Manager struct {
	Repo *Repo
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *Manager) Users(dbx.DBTX) users.Repository              { return m.Repo }
