// internal/app/features/organizations/routes.go
package organizations

import (
	"time"

	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/app/system/ratelimit"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// OnboardingRoutes serves the public POST /organizations. Sign-ups are
// limited per client IP.
func OnboardingRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(ratelimit.New(5, time.Hour).Middleware)
	r.Post("/", h.HandleOnboard)
	return r
}

// Register adds the signed-in member's organization endpoints to r
// (mounted at /organization by bootstrap).
func Register(r chi.Router, h *Handler, sm *auth.SessionManager) {
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeCurrent)
	})
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Patch("/", h.HandleUpdate)
	})
}
