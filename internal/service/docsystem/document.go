package docsystem

import (
	"context"
	"fmt"
	"log/slog"

	"docum/internal/config"
	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/service/docsystem/converter"
	"docum/internal/tree"
)

type documentService struct {
	aggregates *Aggregates
	activity   docsysSvc.ActivityRecorder
	converters docsysSvc.ContentConverter
	rollover   int
	logger     *slog.Logger
}

// NewDocumentService creates a new document service. rollover is the highest
// minor version a document reaches before its major is bumped; a
// non-positive value selects config.DefaultVersionRollover. converters
// may be nil, in which case ImportContent accepts only markdown, text and HTML.
func NewDocumentService(
	aggregates *Aggregates,
	activity docsysSvc.ActivityRecorder,
	converters docsysSvc.ContentConverter,
	rollover int,
	logger *slog.Logger,
) docsysSvc.DocumentService {
	if activity == nil {
		activity = noopRecorder{}
	}
	if rollover <= 0 {
		rollover = config.DefaultVersionRollover
	}
	if converters == nil {
		converters = converter.NewRegistry()
	}
	return &documentService{
		aggregates: aggregates,
		activity:   activity,
		converters: converters,
		rollover:   rollover,
		logger:     logger,
	}
}

// UpdateDocument replaces the stored document's content with doc.Content and
// bumps its version. The stored name changes only when doc.Name is set and
// differs. The matched document keeps its identity and its place in the tree.
func (s *documentService) UpdateDocument(ctx context.Context, userID string, doc *models.Document) (*models.Document, error) {
	if doc == nil || doc.ID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}

	var (
		updated *models.Document
		renamed bool
	)
	u, err := s.aggregates.Mutate(ctx, userID, func(u *models.User) error {
		now := s.aggregates.now()
		target, err := tree.FindDocument(u.RootFolder, doc.ID)
		if err != nil {
			return err
		}

		// Validate the result on a copy so a rejected update leaves nothing
		// half-applied.
		next := target.Clone()
		next.Content = doc.Content
		if doc.Name != "" && doc.Name != target.Name {
			next.Name = doc.Name
			renamed = true
		}
		next.Version = target.Version.Next(s.rollover)
		next.Stamp(u.UserName, now)
		if err := validate(next); err != nil {
			return err
		}

		*target = *next
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := s.aggregates.now()
	if renamed {
		s.activity.Record(ctx, models.NewActivityLog(models.ActivityUpdateDocumentName, u, updated.Name, now))
	}
	s.activity.Record(ctx, models.NewActivityLog(models.ActivityUpdateDocumentContent, u, updated.ID, now))

	s.logger.Info("document updated",
		"id", updated.ID,
		"version", updated.Version.String(),
		"user_id", u.ID,
	)
	return updated.Clone(), nil
}

// ImportContent converts a file to markdown by its extension and stores the
// result as the document's new content, exactly like UpdateDocument.
func (s *documentService) ImportContent(ctx context.Context, userID, documentID, filename string, data []byte) (*models.Document, error) {
	content, err := s.converters.Convert(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("content converted",
		"file", filename,
		"in_bytes", len(data),
		"out_bytes", len(content),
	)
	return s.UpdateDocument(ctx, userID, &models.Document{ID: documentID, Content: content})
}

// GetDocument locates a document anywhere in the user's tree
func (s *documentService) GetDocument(ctx context.Context, userID, documentID string) (*models.Document, error) {
	u, err := s.aggregates.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return tree.FindDocument(u.RootFolder, documentID)
}

// GrantAccess adds or replaces the grant for grant.UserID. The grantee must
// be an existing, not deleted user; its user name is copied onto the grant.
func (s *documentService) GrantAccess(ctx context.Context, userID, documentID string, grant models.AccessGrant) (*models.Document, error) {
	if err := validate(grant); err != nil {
		return nil, err
	}
	grantee, err := s.aggregates.LoadActive(ctx, grant.UserID)
	if err != nil {
		return nil, err
	}
	grant.UserName = grantee.UserName

	var updated *models.Document
	u, err := s.aggregates.Mutate(ctx, userID, func(u *models.User) error {
		now := s.aggregates.now()
		return tree.Apply(u.RootFolder, documentID, tree.ByDocumentID, func(d *models.Document) {
			d.Grant(grant)
			d.Stamp(u.UserName, now)
			updated = d
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document access granted",
		"id", updated.ID,
		"grantee", grant.UserID,
		"access", grant.Access.String(),
		"user_id", u.ID,
	)
	return updated.Clone(), nil
}

// SetKeywords replaces the document's keywords
func (s *documentService) SetKeywords(ctx context.Context, userID, documentID string, keywords []string) (*models.Document, error) {
	var updated *models.Document
	u, err := s.aggregates.Mutate(ctx, userID, func(u *models.User) error {
		target, err := tree.FindDocument(u.RootFolder, documentID)
		if err != nil {
			return err
		}
		next := target.Clone()
		next.SetKeywords(keywords)
		next.Stamp(u.UserName, s.aggregates.now())
		if err := validate(next); err != nil {
			return err
		}
		*target = *next
		updated = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document keywords set",
		"id", updated.ID,
		"count", len(updated.Keywords),
		"user_id", u.ID,
	)
	return updated.Clone(), nil
}
