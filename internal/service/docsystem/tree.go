package docsystem

import (
	"context"
	"log/slog"

	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/tree"
)

// treeService implements the TreeService interface
type treeService struct {
	aggregates *Aggregates
	renderer   *TreeRenderer
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(aggregates *Aggregates, logger *slog.Logger) docsysSvc.TreeService {
	return &treeService{
		aggregates: aggregates,
		renderer:   NewTreeRenderer(),
		logger:     logger,
	}
}

// GetTree returns the user's root folder with its whole subtree
func (s *treeService) GetTree(ctx context.Context, userID string) (*models.Folder, error) {
	u, err := s.aggregates.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	folders, documents := tree.Count(u.RootFolder)
	s.logger.Debug("tree loaded",
		"user_id", userID,
		"folders", folders,
		"documents", documents,
		"depth", tree.Depth(u.RootFolder),
	)
	return u.RootFolder, nil
}

// Render returns the user's tree as indented text
func (s *treeService) Render(ctx context.Context, userID string) (string, error) {
	root, err := s.GetTree(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.renderer.RenderFolder(root), nil
}
