package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	models "docum/internal/domain/models/docsystem"
	"docum/internal/domain/repositories"
	docsysRepo "docum/internal/domain/repositories/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
)

type activityLogService struct {
	logs   docsysRepo.ActivityLogRepository
	logger *slog.Logger
}

// NewActivityLogService creates the activity log service
func NewActivityLogService(logs docsysRepo.ActivityLogRepository, logger *slog.Logger) docsysSvc.ActivityLogService {
	return &activityLogService{
		logs:   logs,
		logger: logger,
	}
}

// Record appends entry. A rejected or failed write is logged and dropped;
// the user's operation has already been committed.
func (s *activityLogService) Record(ctx context.Context, entry *models.ActivityLog) {
	if entry == nil {
		return
	}
	if err := validate(entry); err != nil {
		s.logger.Warn("activity log entry rejected",
			"type", entry.Type.String(),
			"user_id", entry.UserID,
			"error", err,
		)
		return
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to record activity",
			"type", entry.Type.String(),
			"user_id", entry.UserID,
			"error", err,
		)
		return
	}
	s.logger.Debug("activity recorded", "id", entry.ID, "type", entry.Type.String())
}

// ListForUser returns a user's entries in the order they were recorded
func (s *activityLogService) ListForUser(ctx context.Context, userID string) ([]*models.ActivityLog, error) {
	entries, err := s.logs.Find(ctx, repositories.Filter{repositories.Eq("user_id", userID)}, 0)
	if err != nil {
		return nil, fmt.Errorf("list activity for %s: %w", userID, err)
	}
	return entries, nil
}

// noopRecorder discards entries. Used when no activity log is wired.
type noopRecorder struct{}

func (noopRecorder) Record(context.Context, *models.ActivityLog) {}
