// internal/app/features/settings/routes.go
package settings

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts workflow settings under /settings. Every member can read
// them; the handlers restrict writes to ADMIN and CO_ADMIN.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Route("/claim-statuses", func(r chi.Router) {
		r.Get("/", h.ServeClaimStatuses)
		r.Post("/", h.HandleCreateClaimStatus)
		r.Patch("/{id}", h.HandleSetClaimStatusActive)
		r.Delete("/{id}", h.HandleDeleteClaimStatus)
	})

	r.Route("/workflow-roles", func(r chi.Router) {
		r.Get("/", h.ServeRoles)
		r.Post("/", h.HandleCreateRole)
		r.Patch("/{id}", h.HandleUpdateRole)
		r.Delete("/{id}", h.HandleDeleteRole)
		r.Put("/{id}/members", h.HandleReplaceMembers)
	})

	r.Route("/automation-rules", func(r chi.Router) {
		r.Get("/", h.ServeRules)
		r.Post("/", h.HandleCreateRule)
		r.Patch("/{id}", h.HandleUpdateRule)
		r.Delete("/{id}", h.HandleDeleteRule)
	})

	return r
}
