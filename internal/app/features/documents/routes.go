// internal/app/features/documents/routes.go
package documents

import (
	"github.com/dalemusser/claimdesk/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	r.Get("/", h.ServeList)
	r.Post("/uploads", h.HandleUpload)
	r.Post("/", h.HandleRegister)
	r.Get("/{id}/download", h.ServeDownload)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
