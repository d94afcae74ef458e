package handle

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, msg string, reasons ...string) {
	jsonResponse(w, status, errorResponse{Error: msg, Errors: reasons})
}

// writeServiceError maps the core error taxonomy onto response codes:
// not-found 404, validation 400 with the full reason list, collaborator
// outage 503, fatal commit 500 with a generic message (internals must not
// leak to end users).
func writeServiceError(w http.ResponseWriter, err error) {
	var verrs *core.ValidationErrors
	if errors.As(err, &verrs) {
		jsonError(w, http.StatusBadRequest, "validation failed", verrs.Reasons...)
		return
	}

	var cerr *core.CommitError
	if errors.As(err, &cerr) {
		jsonError(w, http.StatusInternalServerError, "settlement could not be completed, please retry")
		return
	}

	switch {
	case errors.Is(err, core.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNoItems):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrCollaborator):
		jsonError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, core.ErrCatalogMissing):
		jsonError(w, http.StatusServiceUnavailable, err.Error())
	default:
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
