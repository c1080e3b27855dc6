package handler

import (
	"log/slog"
	"net/http"

	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService docsysSvc.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService docsysSvc.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a folder under parent_id (root when omitted)
// POST /api/users/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id")
	if !ok {
		return
	}

	var req docsysSvc.AddFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = ids[0]

	folder, err := h.folderService.AddFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// RenameFolder renames a folder
// PATCH /api/users/{id}/folders/{folderID}
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "folderID")
	if !ok {
		return
	}

	var req docsysSvc.RenameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.UserID = ids[0]
	req.FolderID = ids[1]

	folder, err := h.folderService.RenameFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// CreateDocument creates an empty document in a folder
// POST /api/users/{id}/folders/{folderID}/documents
func (h *FolderHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "folderID")
	if !ok {
		return
	}

	doc, err := h.folderService.AddDocument(r.Context(), &docsysSvc.AddDocumentRequest{
		UserID:   ids[0],
		FolderID: ids[1],
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}
