package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/config"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/go-playground/validator/v10"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// seams for tests
var (
	openDB               = repomanager.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
)

var adminFlags = []string{"-name", "-email"}

// AdminInput holds the account the command creates or promotes.
type AdminInput struct {
	Name     string `validate:"required,min=2,max=255"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=20"`
}

// ParseAdminFlags reads -name and -email from args, ignoring everything
// that belongs to the config loader.
func ParseAdminFlags(args []string) (AdminInput, error) {
	var in AdminInput

	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.StringVar(&in.Name, "name", "", "admin display name")
	fs.StringVar(&in.Email, "email", "", "admin email")

	if err := fs.Parse(flagx.FilterArgs(args, adminFlags)); err != nil {
		return AdminInput{}, err
	}
	return in, nil
}

// PromptAdmin asks for the fields preset leaves empty. The password is
// always asked for twice.
func PromptAdmin(reader *bufio.Reader, w io.Writer, preset AdminInput) (AdminInput, error) {
	in := preset
	var err error

	if in.Name == "" {
		if in.Name, err = GetSimpleText(reader, "Admin name", w); err != nil {
			return AdminInput{}, err
		}
	}
	if in.Email == "" {
		if in.Email, err = GetSimpleText(reader, "Admin email", w); err != nil {
			return AdminInput{}, err
		}
	}

	pw, err := GetPassword("Enter password", w)
	if err != nil {
		return AdminInput{}, err
	}
	defer wipe(pw)

	confirm, err := GetPassword("Repeat password", w)
	if err != nil {
		return AdminInput{}, err
	}
	defer wipe(confirm)

	if !bytes.Equal(pw, confirm) {
		return AdminInput{}, ErrPasswordMismatch
	}
	in.Password = string(pw)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(in); err != nil {
		return AdminInput{}, fmt.Errorf("invalid admin input: %w", err)
	}
	return in, nil
}

// RunAdmin migrates the database and stores the admin account.
func RunAdmin(ctx context.Context, cfg *config.Config, in AdminInput, w io.Writer) error {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("db migration error: %w", err)
	}

	user, created, err := services.EnsureAdmin(ctx, db, rm, auth.NewBcryptHasher(cfg.BcryptCost), in.Name, in.Email, in.Password)
	if err != nil {
		return err
	}

	if created {
		fmt.Fprintf(w, "Admin %s created (id %d)\n", user.Email, user.ID)
	} else {
		fmt.Fprintf(w, "User %s promoted to admin (id %d)\n", user.Email, user.ID)
	}
	return nil
}
