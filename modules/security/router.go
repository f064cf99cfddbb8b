// Package security exposes the credential lifecycle over HTTP: password
// change, MFA enrollment and confirmation for both authenticator apps and
// email codes, and MFA disable.
//
// The module assumes an authenticated request; the caller supplies a
// UserResolver that extracts the acting user from the request, typically
// from a session established by surrounding middleware.
package security

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/authly/authly/svc/credential"
)

// UserResolver extracts the authenticated user from the request.
type UserResolver func(r *http.Request) (uuid.UUID, error)

// ErrUnauthenticated is returned by UserResolver implementations when the
// request carries no authenticated user.
var ErrUnauthenticated = errors.New("security: unauthenticated request")

type Handler struct {
	svc     *credential.Service
	resolve UserResolver
	logger  *slog.Logger
}

type Option func(*Handler)

// WithLogger sets a custom logger for the handler.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = log
	}
}

// NewHandler creates the security module handler.
func NewHandler(svc *credential.Service, resolve UserResolver, opts ...Option) *Handler {
	h := &Handler{
		svc:     svc,
		resolve: resolve,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle returns the module router, intended to be mounted under a path
// like /settings/security.
func (h *Handler) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.overview)
	r.Post("/password", h.changePassword)

	r.Route("/mfa", func(mfa chi.Router) {
		mfa.Post("/method", h.setMethod)
		mfa.Post("/disable", h.disable)

		mfa.Route("/totp", func(totp chi.Router) {
			totp.Post("/begin", h.beginTOTP)
			totp.Post("/confirm", h.confirmTOTP)
		})

		mfa.Route("/email", func(em chi.Router) {
			em.Post("/begin", h.beginEmail)
			em.Post("/confirm", h.confirmEmail)
			em.Post("/resend", h.resendEmail)
		})
	})

	return r
}
