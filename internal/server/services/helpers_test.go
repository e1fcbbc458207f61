package services

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users/userstest"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func newHasher() *auth.BcryptHasher { return auth.NewBcryptHasher(bcrypt.MinCost) }

// fakeHasher fails on demand and counts calls.
type fakeHasher struct {
	hashErr   error
	verifyErr error
	hashes    int
	verifies  int
}

func (f *fakeHasher) Hash(plain string) (string, error) {
	f.hashes++
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hashed:" + plain, nil
}

func (f *fakeHasher) Verify(plain, hash string) (bool, error) {
	f.verifies++
	if f.verifyErr != nil {
		return false, f.verifyErr
	}
	return hash == "hashed:"+plain, nil
}

func newAuthService(repo *userstest.Repo, h PasswordHasher) *AuthService {
	return NewAuthService(nil, &userstest.Manager{Repo: repo}, h, logging.NewNopLogger())
}

func newUserService(repo *userstest.Repo, h PasswordHasher) *UserService {
	return NewUserService(nil, &userstest.Manager{Repo: repo}, h, logging.NewNopLogger())
}

func seedUser(t *testing.T, repo *userstest.Repo, h PasswordHasher, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := h.Hash(password)
	require.NoError(t, err)
	return repo.Seed(models.User{Name: "Seeded", Email: email, PasswordHash: hash, Role: role})
}
