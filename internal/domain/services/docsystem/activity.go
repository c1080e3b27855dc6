package docsystem

import (
	"context"

	"docum/internal/domain/models/docsystem"
)

// ActivityRecorder is the sink services report user actions to. Record never
// fails the calling operation.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *docsystem.ActivityLog)
}

// ActivityLogService records and lists activity log entries
type ActivityLogService interface {
	ActivityRecorder

	// ListForUser returns a user's entries in the order they were recorded
	ListForUser(ctx context.Context, userID string) ([]*docsystem.ActivityLog, error)
}
