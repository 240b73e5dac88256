package http

import (
	"net/http"

	"github.com/cmlabs-hris/hr-attendance-kanban/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-attendance-kanban/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// idParam returns the {id} path parameter. Anything that is not one of our
// UUIDs cannot name a row, so it is answered with notFound.
func idParam(w http.ResponseWriter, r *http.Request, notFound error) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.HandleError(w, notFound)
		return "", false
	}
	return id, true
}
