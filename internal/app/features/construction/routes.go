// internal/app/features/construction/routes.go
package construction

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the API under /construction-projects.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/search", h.ServeSearch)
	r.Get("/client/{clientId}", h.ServeByClient)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeProject)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
