// Package http is the REST surface of the service: routing, middleware,
// request validation and the mapping of service errors to responses.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/admission"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/dmitrijs2005/usersvc/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, error)
	Signin(ctx context.Context, email, password string) (*models.User, error)
}

type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, principal *models.Principal, id int64, in services.UpdateInput) (*models.User, error)
	Delete(ctx context.Context, principal *models.Principal, id int64) (*models.User, error)
}

type Admitter interface {
	Admit(ctx context.Context, principal *models.Principal, req admission.Request) (admission.Decision, error)
}

// Deps are the collaborators of Handler. Metrics may be nil.
type Deps struct {
	Auth      AuthService
	Users     UserService
	Tokens    *auth.TokenIssuer
	Admission Admitter
	Logger    logging.Logger
	Metrics   http.Handler
}

type Handler struct {
	auth      AuthService
	users     UserService
	tokens    *auth.TokenIssuer
	admission Admitter
	logger    logging.Logger
	metrics   http.Handler
	validate  *validator.Validate
	started   time.Time
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		auth:      d.Auth,
		users:     d.Users,
		tokens:    d.Tokens,
		admission: d.Admission,
		logger:    d.Logger.With("module", "http"),
		metrics:   d.Metrics,
		validate:  newValidator(),
		started:   time.Now(),
	}
}

// NewRouter registers the routes and middleware stack. Everything except
// /health and /metrics goes through authentication and admission.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found", "Route not found.")
	})

	r.Get("/health", h.health)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Use(h.admit)

		r.Get("/", h.root)
		r.Get("/api", h.apiStatus)

		r.Route("/api/auth", func(r chi.Router) {
			r.Post("/signup", h.signup)
			r.Post("/signin", h.signin)
			r.Post("/signout", h.signout)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
			r.Patch("/{id}", h.updateUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})
	})

	return r
}
