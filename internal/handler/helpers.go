package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"docum/internal/domain"
	"docum/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Unexpected errors
// are logged and hidden behind a generic 500.
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.As(err, &conflictErr):
		problem := httputil.NewProblem(http.StatusConflict, conflictErr.Error()).
			With("resource_type", conflictErr.ResourceType)
		if conflictErr.ResourceID != "" {
			problem.With("resource_id", conflictErr.ResourceID)
		}
		if len(conflictErr.Fields) > 0 {
			problem.With("fields", conflictErr.Fields)
		}
		httputil.RespondProblem(w, problem)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("unhandled request error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathValues reads the named path parameters, answering 400 when one is
// missing.
func pathValues(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = r.PathValue(name)
		if values[i] == "" {
			httputil.RespondError(w, http.StatusBadRequest, name+" is required")
			return nil, false
		}
	}
	return values, true
}
