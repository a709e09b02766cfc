// internal/app/features/members/routes.go
package members

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/dalemusser/claimdesk/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts member management under /organization/members.
// Every member may list; only ADMIN changes anything.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireRole(models.RoleAdmin))
		pr.Post("/", h.HandleAdd)
		pr.Patch("/{id}/role", h.HandleChangeRole)
		pr.Post("/{id}/reset-password", h.HandleResetPassword)
		pr.Delete("/{id}", h.HandleRemove)
	})

	return r
}
