package docsystem

import (
	"context"
	"log/slog"

	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/tree"
)

type folderService struct {
	aggregates *Aggregates
	activity   docsysSvc.ActivityRecorder
	logger     *slog.Logger
}

// NewFolderService creates a new folder service. activity may be nil.
func NewFolderService(
	aggregates *Aggregates,
	activity docsysSvc.ActivityRecorder,
	logger *slog.Logger,
) docsysSvc.FolderService {
	if activity == nil {
		activity = noopRecorder{}
	}
	return &folderService{
		aggregates: aggregates,
		activity:   activity,
		logger:     logger,
	}
}

// AddFolder creates an empty folder under the parent found by id anywhere in
// the user's tree. An empty ParentID targets the root folder.
func (s *folderService) AddFolder(ctx context.Context, req *docsysSvc.AddFolderRequest) (*models.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, err
	}

	var created *models.Folder
	u, err := s.aggregates.Mutate(ctx, req.UserID, func(u *models.User) error {
		now := s.aggregates.now()
		child := models.NewFolder(req.Name, u.ID, now)

		parentID := req.ParentID
		if parentID == "" {
			parentID = u.RootFolder.ID
		}
		err := tree.Apply(u.RootFolder, parentID, tree.ByFolderID, func(parent *models.Folder) {
			parent.AddFolder(child)
			parent.Stamp(u.UserName, now)
		})
		if err != nil {
			return err
		}
		created = child
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, models.NewActivityLog(models.ActivityAddNewFolder, u, created.Name, s.aggregates.now()))
	s.logger.Info("folder created",
		"id", created.ID,
		"name", created.Name,
		"user_id", u.ID,
	)
	return created.Clone(), nil
}

// RenameFolder renames the folder with the given id, wherever it is
func (s *folderService) RenameFolder(ctx context.Context, req *docsysSvc.RenameFolderRequest) (*models.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, err
	}

	var renamed *models.Folder
	u, err := s.aggregates.Mutate(ctx, req.UserID, func(u *models.User) error {
		now := s.aggregates.now()
		return tree.Apply(u.RootFolder, req.FolderID, tree.ByFolderID, func(f *models.Folder) {
			f.Name = req.Name
			f.Stamp(u.UserName, now)
			renamed = f
		})
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, models.NewActivityLog(models.ActivityUpdateFolderName, u, renamed.Name, s.aggregates.now()))
	s.logger.Info("folder renamed",
		"id", renamed.ID,
		"name", renamed.Name,
		"user_id", u.ID,
	)
	return renamed.Clone(), nil
}

// AddDocument creates an empty document in the folder found by id. An empty
// FolderID targets the root folder.
func (s *folderService) AddDocument(ctx context.Context, req *docsysSvc.AddDocumentRequest) (*models.Document, error) {
	var created *models.Document
	u, err := s.aggregates.Mutate(ctx, req.UserID, func(u *models.User) error {
		now := s.aggregates.now()
		doc := models.NewDocument(now)

		folderID := req.FolderID
		if folderID == "" {
			folderID = u.RootFolder.ID
		}
		err := tree.Apply(u.RootFolder, folderID, tree.ByFolderID, func(f *models.Folder) {
			f.AddDocument(doc)
			f.Stamp(u.UserName, now)
		})
		if err != nil {
			return err
		}
		created = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, models.NewActivityLog(models.ActivityAddNewDocument, u, created.ID, s.aggregates.now()))
	s.logger.Info("document created",
		"id", created.ID,
		"folder_id", req.FolderID,
		"user_id", u.ID,
	)
	return created.Clone(), nil
}
