package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users/userstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_Success(t *testing.T) {
	repo := userstest.NewRepo()
	h := newHasher()
	s := newAuthService(repo, h)

	u, err := s.Signup(context.Background(), SignupInput{
		Name: "  Alice  ", Email: " Alice@Example.COM ", Password: "password1",
	})
	require.NoError(t, err)

	assert.NotZero(t, u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.PasswordHash, "returned record must not carry the hash")

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	ok, err := h.Verify("password1", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignup_ExplicitRole(t *testing.T) {
	s := newAuthService(userstest.NewRepo(), &fakeHasher{})

	u, err := s.Signup(context.Background(), SignupInput{Name: "Ad", Email: "ad@example.com", Password: "password1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = s.Signup(context.Background(), SignupInput{Name: "G", Email: "g@example.com", Password: "password1", Role: models.RoleGuest})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	repo := userstest.NewRepo()
	s := newAuthService(repo, &fakeHasher{})
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupInput{Name: "A", Email: "dup@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, SignupInput{Name: "B", Email: "DUP@example.com", Password: "password2"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.Count(), "no new row on duplicate")
}

func TestSignup_DuplicateCaughtByStoreConstraint(t *testing.T) {
	repo := userstest.NewRepo()
	h := &fakeHasher{}
	seedUser(t, repo, h, "race@example.com", "password1", models.RoleUser)
	repo.HideEmailOnRead = true

	s := newAuthService(repo, h)
	_, err := s.Signup(context.Background(), SignupInput{Name: "B", Email: "race@example.com", Password: "password2"})

	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.Count())
}

func TestSignup_HashingFailure(t *testing.T) {
	repo := userstest.NewRepo()
	s := newAuthService(repo, &fakeHasher{hashErr: common.ErrHashing})

	_, err := s.Signup(context.Background(), SignupInput{Name: "A", Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, common.ErrHashing)
	assert.Zero(t, repo.Count())
}

func TestSignup_StoreFailure(t *testing.T) {
	repo := userstest.NewRepo()
	repo.Err = errBoom
	s := newAuthService(repo, &fakeHasher{})

	_, err := s.Signup(context.Background(), SignupInput{Name: "A", Email: "a@example.com", Password: "password1"})
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestSignin(t *testing.T) {
	repo := userstest.NewRepo()
	h := newHasher()
	seeded := seedUser(t, repo, h, "bob@example.com", "password1", models.RoleAdmin)
	s := newAuthService(repo, h)
	ctx := context.Background()

	t.Run("correct credentials", func(t *testing.T) {
		u, err := s.Signin(ctx, " BOB@example.com", "password1")
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, u.ID)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.Empty(t, u.PasswordHash)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrong := s.Signin(ctx, "bob@example.com", "password2")
		_, errMissing := s.Signin(ctx, "nobody@example.com", "password1")

		assert.ErrorIs(t, errWrong, common.ErrInvalidCredentials)
		assert.ErrorIs(t, errMissing, common.ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errMissing.Error())
	})
}

func TestSignin_UnknownEmailStillCompares(t *testing.T) {
	h := &fakeHasher{}
	s := newAuthService(userstest.NewRepo(), h)

	_, err := s.Signin(context.Background(), "ghost@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.Equal(t, 1, h.verifies)
}

func TestSignin_Faults(t *testing.T) {
	repo := userstest.NewRepo()
	seedUser(t, repo, &fakeHasher{}, "c@example.com", "password1", models.RoleUser)

	s := newAuthService(repo, &fakeHasher{verifyErr: common.ErrComparison})
	_, err := s.Signin(context.Background(), "c@example.com", "password1")
	assert.ErrorIs(t, err, common.ErrComparison)

	repo.Err = errBoom
	s = newAuthService(repo, &fakeHasher{})
	_, err = s.Signin(context.Background(), "c@example.com", "password1")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.io", NormalizeEmail("  A@B.io\t"))
}
