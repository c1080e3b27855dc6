package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
)

// TreeService exposes a user's folder tree
type TreeService interface {
	// GetTree returns the user's root folder with its whole subtree
	GetTree(ctx context.Context, userID string) (*docsystem.Folder, error)

	// Render returns the tree as indented ASCII text
	Render(ctx context.Context, userID string) (string, error)
}
