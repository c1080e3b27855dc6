package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
)

// ActivityHandler serves a user's activity log
type ActivityHandler struct {
	activityService docsysSvc.ActivityLogService
	logger          *slog.Logger
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService docsysSvc.ActivityLogService, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListActivity returns the user's entries in recording order
// GET /api/users/{id}/activity
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	entries, err := h.activityService.ListForUser(r.Context(), ids[0])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, entries)
}
