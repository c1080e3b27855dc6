package handler

import (
	"log/slog"
	"mime"
	"net/http"

	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService docsysSvc.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService docsysSvc.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// GetDocument retrieves a document by ID
// GET /api/users/{id}/documents/{documentID}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "documentID")
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), ids[0], ids[1])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateDocument overwrites a document's content and bumps its version
// PUT /api/users/{id}/documents/{documentID}
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "documentID")
	if !ok {
		return
	}

	var req docsysSvc.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	update := &models.Document{ID: ids[1], Content: req.Content}
	if req.Name != nil {
		update.Name = *req.Name
	}

	doc, err := h.docService.UpdateDocument(r.Context(), ids[0], update)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// contentTypeExt maps upload media types to the extension the converters
// are keyed by, for requests that carry no filename.
var contentTypeExt = map[string]string{
	"text/html":     ".html",
	"text/markdown": ".md",
	"text/plain":    ".txt",
}

// ImportContent stores an uploaded file as a document's content after
// converting it to markdown. The format comes from the filename query
// parameter or, failing that, the Content-Type header.
// PUT /api/users/{id}/documents/{documentID}/content
func (h *DocumentHandler) ImportContent(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "documentID")
	if !ok {
		return
	}

	filename := r.URL.Query().Get("filename")
	if filename == "" {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		ext, known := contentTypeExt[mediaType]
		if !known {
			httputil.RespondError(w, http.StatusUnsupportedMediaType,
				"set ?filename= or a text/html, text/markdown or text/plain Content-Type")
			return
		}
		filename = "upload" + ext
	}

	data, err := httputil.ReadBody(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.ImportContent(r.Context(), ids[0], ids[1], filename, data)
	if err != nil {
		handleError(w, err)
		return
	}

	h.logger.Debug("document content imported", "id", doc.ID, "file", filename)
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// grantRequest is the body of a grant call
type grantRequest struct {
	UserID string `json:"user_id"`
	Access string `json:"access"`
}

// GrantAccess gives another user access to a document
// POST /api/users/{id}/documents/{documentID}/grants
func (h *DocumentHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "documentID")
	if !ok {
		return
	}

	var req grantRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	access, err := models.ParseAccessType(req.Access)
	if err != nil {
		handleError(w, err)
		return
	}

	doc, err := h.docService.GrantAccess(r.Context(), ids[0], ids[1], models.AccessGrant{
		UserID: req.UserID,
		Access: access,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// SetKeywords replaces a document's keywords
// PUT /api/users/{id}/documents/{documentID}/keywords
func (h *DocumentHandler) SetKeywords(w http.ResponseWriter, r *http.Request) {
	ids, ok := pathValues(w, r, "id", "documentID")
	if !ok {
		return
	}

	var req struct {
		Keywords []string `json:"keywords"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.docService.SetKeywords(r.Context(), ids[0], ids[1], req.Keywords)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}
