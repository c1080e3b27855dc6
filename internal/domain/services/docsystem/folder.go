package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
)

// FolderService handles folder business logic inside a user's tree
type FolderService interface {
	// AddFolder creates a folder under ParentID (empty for the root folder)
	AddFolder(ctx context.Context, req *AddFolderRequest) (*docsystem.Folder, error)

	// RenameFolder renames the folder with the given id anywhere in the tree
	RenameFolder(ctx context.Context, req *RenameFolderRequest) (*docsystem.Folder, error)

	// AddDocument creates an empty document in a folder
	AddDocument(ctx context.Context, req *AddDocumentRequest) (*docsystem.Document, error)
}

// AddFolderRequest represents a folder creation request
type AddFolderRequest struct {
	UserID   string `json:"-"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"` // empty for root
}

// RenameFolderRequest represents a folder rename request
type RenameFolderRequest struct {
	UserID   string `json:"-"`
	FolderID string `json:"-"`
	Name     string `json:"name"`
}

// AddDocumentRequest represents a document creation request
type AddDocumentRequest struct {
	UserID   string `json:"-"`
	FolderID string `json:"-"` // empty for root
}
