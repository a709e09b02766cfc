// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes wires the dashboard under /dashboard. Every member of the
// organization sees the same numbers.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/summary", h.ServeSummary)
	r.Get("/claim-statuses", h.ServeClaimStatuses)
	r.Get("/workflow", h.ServeWorkflow)

	return r
}
