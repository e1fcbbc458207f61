package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/config"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users/userstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdminFlags(t *testing.T) {
	in, err := ParseAdminFlags([]string{"-d", "postgres://x", "-name", "Root", "-email=root@example.com"})
	require.NoError(t, err)
	assert.Equal(t, AdminInput{Name: "Root", Email: "root@example.com"}, in)
}

func TestPromptAdmin(t *testing.T) {
	t.Run("prompts for missing fields", func(t *testing.T) {
		stubPasswords(t, "password1", "password1")

		var out bytes.Buffer
		in, err := PromptAdmin(rdr("Root Admin\nroot@example.com\n"), &out, AdminInput{})
		require.NoError(t, err)
		assert.Equal(t, AdminInput{Name: "Root Admin", Email: "root@example.com", Password: "password1"}, in)
		assert.Contains(t, out.String(), "Admin name")
		assert.Contains(t, out.String(), "Repeat password")
	})

	t.Run("keeps preset fields", func(t *testing.T) {
		stubPasswords(t, "password1", "password1")

		var out bytes.Buffer
		in, err := PromptAdmin(rdr(""), &out, AdminInput{Name: "Root", Email: "root@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "Root", in.Name)
		assert.NotContains(t, out.String(), "Admin email")
	})

	t.Run("mismatch", func(t *testing.T) {
		stubPasswords(t, "password1", "password2")

		_, err := PromptAdmin(rdr(""), &bytes.Buffer{}, AdminInput{Name: "Root", Email: "root@example.com"})
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("short password", func(t *testing.T) {
		stubPasswords(t, "short", "short")

		_, err := PromptAdmin(rdr(""), &bytes.Buffer{}, AdminInput{Name: "Root", Email: "root@example.com"})
		require.ErrorContains(t, err, "invalid admin input")
	})

	t.Run("bad email", func(t *testing.T) {
		stubPasswords(t, "password1", "password1")

		_, err := PromptAdmin(rdr(""), &bytes.Buffer{}, AdminInput{Name: "Root", Email: "not-an-email"})
		require.ErrorContains(t, err, "invalid admin input")
	})
}

func stubStore(t *testing.T, repo *userstest.Repo) sqlmock.Sqlmock {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	oldOpen, oldManager := openDB, newRepositoryManager
	t.Cleanup(func() { openDB, newRepositoryManager = oldOpen, oldManager })

	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	newRepositoryManager = func() repomanager.RepositoryManager { return &userstest.Manager{Repo: repo} }
	return mock
}

func adminConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.BcryptCost = 4
	return c
}

func TestRunAdmin_Creates(t *testing.T) {
	repo := userstest.NewRepo()
	mock := stubStore(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectClose()

	var out bytes.Buffer
	err := RunAdmin(context.Background(), adminConfig(), AdminInput{Name: "Root", Email: "Root@Example.com", Password: "password1"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Admin root@example.com created (id 1)\n", out.String())
	u, err := repo.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunAdmin_Promotes(t *testing.T) {
	repo := userstest.NewRepo()
	existing := repo.Seed(models.User{Name: "Jo", Email: "jo@example.com", PasswordHash: "x", Role: models.RoleUser})

	mock := stubStore(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectClose()

	var out bytes.Buffer
	err := RunAdmin(context.Background(), adminConfig(), AdminInput{Name: "Jo", Email: "jo@example.com", Password: "password1"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "promoted to admin")
	u, err := repo.FindByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NotEqual(t, "x", u.PasswordHash)
}

func TestRunAdmin_DBError(t *testing.T) {
	stubStore(t, userstest.NewRepo())
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

	err := RunAdmin(context.Background(), adminConfig(), AdminInput{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "db init error")
}

func TestRunAdmin_MultibytePassword(t *testing.T) {
	repo := userstest.NewRepo()
	mock := stubStore(t, repo)
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectClose()

	pw := strings.Repeat("😀", 20)
	stubPasswords(t, pw, pw)
	in, err := PromptAdmin(rdr(""), &bytes.Buffer{}, AdminInput{Name: "Root", Email: "root@example.com"})
	require.NoError(t, err)

	require.NoError(t, RunAdmin(context.Background(), adminConfig(), in, &bytes.Buffer{}))

	u, err := repo.FindByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	ok, err := auth.NewBcryptHasher(4).Verify(pw, u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}
