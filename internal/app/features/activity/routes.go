// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for /activity-logs. Every member can read and
// write logs; deletion is checked per request against the record policy.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Get("/recent", h.ServeRecent)
	r.Post("/", h.HandleCreate)
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
