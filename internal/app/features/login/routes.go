// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes serves POST /auth/login.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	return r
}

// TokenRoutes serves POST /auth/token.
func TokenRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleToken)
	return r
}
