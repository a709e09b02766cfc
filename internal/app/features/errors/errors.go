// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/claimdesk/internal/app/system/httpjson"
)

// Handler answers requests the router cannot route with the API's
// error envelope instead of chi's plain-text defaults.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound is installed as the router's NotFound handler.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound, "no route for "+r.Method+" "+r.URL.Path)
}

// MethodNotAllowed is installed as the router's MethodNotAllowed handler.
// chi has already set the Allow header.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpjson.Error(w, http.StatusMethodNotAllowed, httpjson.CodeMethod, r.Method+" is not allowed on "+r.URL.Path)
}
