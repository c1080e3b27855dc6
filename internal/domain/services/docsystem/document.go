package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
)

// DocumentService handles document business logic inside a user's tree
type DocumentService interface {
	// UpdateDocument overwrites the content (and name, when changed) of the
	// stored document with doc.ID and bumps its version
	UpdateDocument(ctx context.Context, userID string, doc *docsystem.Document) (*docsystem.Document, error)

	// ImportContent converts an uploaded file to markdown and stores it as
	// the document's content, bumping the version
	ImportContent(ctx context.Context, userID, documentID, filename string, data []byte) (*docsystem.Document, error)

	// GetDocument locates a document without changing it
	GetDocument(ctx context.Context, userID, documentID string) (*docsystem.Document, error)

	// GrantAccess adds or replaces another user's access to a document
	GrantAccess(ctx context.Context, userID, documentID string, grant docsystem.AccessGrant) (*docsystem.Document, error)

	// SetKeywords replaces a document's keywords
	SetKeywords(ctx context.Context, userID, documentID string, keywords []string) (*docsystem.Document, error)
}

// UpdateDocumentRequest is the HTTP/CLI body of a document update
type UpdateDocumentRequest struct {
	Name    *string `json:"name,omitempty"`
	Content string  `json:"content"`
}
