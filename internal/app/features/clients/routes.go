// internal/app/features/clients/routes.go
package clients

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the client API under /clients.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/search", h.ServeSearch)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeClient)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
