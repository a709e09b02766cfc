// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit log under /audit-logs. Only admins read it;
// the handler enforces that per organization.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)

	return r
}
