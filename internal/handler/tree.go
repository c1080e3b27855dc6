package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
)

// TreeHandler handles HTTP requests for tree operations
type TreeHandler struct {
	treeService docsysSvc.TreeService
	logger      *slog.Logger
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(treeService docsysSvc.TreeService, logger *slog.Logger) *TreeHandler {
	return &TreeHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the user's nested folder/document tree. With
// ?format=text the tree is rendered as plain text instead.
// GET /api/users/{id}/tree
func (h *TreeHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	if r.URL.Query().Get("format") == "text" {
		text, err := h.treeService.Render(r.Context(), ids[0])
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondText(w, http.StatusOK, text)
		return
	}

	root, err := h.treeService.GetTree(r.Context(), ids[0])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, root)
}
