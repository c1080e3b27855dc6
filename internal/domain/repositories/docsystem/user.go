package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
	"docum/internal/domain/repositories"
)

// UserRepository defines data access operations for user aggregates. A user
// is stored together with its whole folder tree.
type UserRepository interface {
	// Insert stores a new user after its uniqueness constraints approve it
	Insert(ctx context.Context, user *docsystem.User) error

	// Save upserts a user; enforce re-checks uniqueness constraints first
	Save(ctx context.Context, user *docsystem.User, enforce bool) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*docsystem.User, error)

	// Find retrieves users matching filter (empty matches all)
	Find(ctx context.Context, filter repositories.Filter, limit int) ([]*docsystem.User, error)

	// Exists reports whether user would violate a uniqueness constraint
	Exists(ctx context.Context, user *docsystem.User) (bool, error)
}

// ActivityLogRepository defines data access operations for activity logs
type ActivityLogRepository interface {
	// Insert appends an entry
	Insert(ctx context.Context, entry *docsystem.ActivityLog) error

	// Find retrieves entries matching filter
	Find(ctx context.Context, filter repositories.Filter, limit int) ([]*docsystem.ActivityLog, error)
}
