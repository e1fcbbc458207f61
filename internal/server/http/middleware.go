package http

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/admission"
	"github.com/dmitrijs2005/usersvc/internal/server/auth"
	"github.com/google/uuid"
)

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), reqID)))
	})
}

func (h *Handler) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				h.logger.Error(r.Context(), "panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
				)
				writeError(w, http.StatusInternalServerError, "Internal server Error!", "Something went wrong.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(payload)
	r.bytes += n
	return n, err
}

func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r)

		statusCode := recorder.statusCode
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", statusCode,
			"bytes", recorder.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		switch {
		case statusCode >= 500:
			h.logger.Error(r.Context(), "http request completed", fields...)
		case statusCode >= 400:
			h.logger.Warn(r.Context(), "http request completed", fields...)
		default:
			h.logger.Info(r.Context(), "http request completed", fields...)
		}
	})
}

// authenticate attaches the principal from a valid session cookie. Requests
// without one, or with a token that fails verification, continue as guests.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := h.tokens.Read(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.tokens.Verify(token)
		if err != nil {
			h.logger.Warn(r.Context(), "ignoring session token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithPrincipal(r.Context(), claims.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var denialMessages = map[admission.Reason]string{
	admission.ReasonBot:       "Automated requests are not Allowed!",
	admission.ReasonShield:    "Request blocked by security Policy!",
	admission.ReasonRateLimit: "Too many Request!",
}

// admit blocks the request until the admission controller decides. A
// controller failure is answered with 500, never with a guess.
func (h *Handler) admit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := auth.PrincipalFromContext(r.Context())

		d, err := h.admission.Admit(r.Context(), principal, admission.RequestFromHTTP(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Internal server Error!", "Something went wrong with security Middleware.")
			return
		}
		if !d.Allowed() {
			writeError(w, http.StatusForbidden, "Forbidden", denialMessages[d.Reason()])
			return
		}

		next.ServeHTTP(w, r)
	})
}
