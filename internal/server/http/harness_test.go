package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/admission"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/repositories/users/userstest"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

type allowAll struct{}

func (allowAll) Admit(context.Context, *models.Principal, admission.Request) (admission.Decision, error) {
	return admission.Allow(), nil
}

type admitFunc func(context.Context, *models.Principal, admission.Request) (admission.Decision, error)

func (f admitFunc) Admit(ctx context.Context, p *models.Principal, req admission.Request) (admission.Decision, error) {
	return f(ctx, p, req)
}

type harness struct {
	repo   *userstest.Repo
	hasher *auth.BcryptHasher
	tokens *auth.TokenIssuer
	router http.Handler
}

func newHarness(t *testing.T, adm Admitter) *harness {
	t.Helper()
	if adm == nil {
		adm = allowAll{}
	}

	repo := userstest.NewRepo()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewTokenIssuer(auth.TokenConfig{SecretKey: []byte("test-secret"), Validity: time.Hour, CookieSecure: true})
	logger := logging.NewNopLogger()
	m := &userstest.Manager{Repo: repo}

	h := NewHandler(Deps{
		Auth:      services.NewAuthService(nil, m, hasher, logger),
		Users:     services.NewUserService(nil, m, hasher, logger),
		Tokens:    tokens,
		Admission: adm,
		Logger:    logger,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics"))
		}),
	})

	return &harness{repo: repo, hasher: hasher, tokens: tokens, router: NewRouter(h)}
}

func (h *harness) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

// seed stores a user with password "password1" and returns it with a
// session cookie for it.
func (h *harness) seed(t *testing.T, email string, role models.Role) (*models.User, *http.Cookie) {
	t.Helper()
	hash, err := h.hasher.Hash("password1")
	require.NoError(t, err)
	u := h.repo.Seed(models.User{Name: "Seeded User", Email: email, PasswordHash: hash, Role: role})

	token, _, err := h.tokens.Issue(auth.ClaimsFor(u))
	require.NoError(t, err)
	return u, &http.Cookie{Name: "token", Value: token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}
