// Package seed fills a store with a demo user whose tree exercises nested
// folders, versioned documents and the activity log.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"
)

// Services are the collaborators the seeder writes through.
type Services struct {
	Users     docsysSvc.UserService
	Folders   docsysSvc.FolderService
	Documents docsysSvc.DocumentService
}

// Seeder creates demo data through the services, so every write is
// validated, constraint-checked and logged like a user's.
type Seeder struct {
	svc    Services
	logger *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(svc Services, logger *slog.Logger) *Seeder {
	return &Seeder{svc: svc, logger: logger}
}

type seedDocument struct {
	path      string // folder path below the root, "/"-separated
	name      string
	revisions []string
	keywords  []string
}

// demoUser is the account the seeder creates
var demoUser = docsysSvc.CreateUserRequest{
	UserName: "sakyazici",
	Email:    "sakyazici@example.com",
	Name:     "Serkan",
	Surname:  "Akyazici",
}

func seedDocuments() []seedDocument {
	return []seedDocument{
		{
			path: "Chapters",
			name: "Chapter 1 - The Beginning",
			revisions: []string{
				"The morning sun cast long shadows across the cobblestone streets of Eldergrove.",
				"The morning sun cast long shadows across the cobblestone streets of Eldergrove. Aria stood at the window, watching the city wake.",
			},
			keywords: []string{"draft", "chapter"},
		},
		{
			path:      "Chapters",
			name:      "Chapter 2 - The Academy",
			revisions: []string{"The Academy's spires pierced the clouds."},
			keywords:  []string{"chapter"},
		},
		{
			path:      "Notes/Characters",
			name:      "Aria",
			revisions: []string{"Protagonist. Believes she is not gifted."},
		},
		{
			path: "Notes/Worldbuilding/Places",
			name: "Eldergrove",
		},
	}
}

// Result reports what Seed created.
type Result struct {
	User      *models.User `json:"user"`
	Folders   int          `json:"folders"`
	Documents int          `json:"documents"`
}

// Seed creates the demo user and its tree. An existing demo user is a
// conflict; reset the store first to reseed.
func (s *Seeder) Seed(ctx context.Context) (*Result, error) {
	user, err := s.svc.Users.CreateUser(ctx, &demoUser)
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, fmt.Errorf("demo user already exists (run with --reset): %w", err)
		}
		return nil, err
	}

	result := &Result{User: user}
	folders := map[string]string{"": user.RootFolder.ID}

	for i, sd := range seedDocuments() {
		folderID, created, err := s.ensurePath(ctx, user.ID, sd.path, folders)
		if err != nil {
			return nil, fmt.Errorf("create folders %s: %w", sd.path, err)
		}
		result.Folders += created

		doc, err := s.svc.Folders.AddDocument(ctx, &docsysSvc.AddDocumentRequest{UserID: user.ID, FolderID: folderID})
		if err != nil {
			return nil, fmt.Errorf("create document %s: %w", sd.name, err)
		}

		update := &models.Document{ID: doc.ID, Name: sd.name}
		if len(sd.revisions) == 0 {
			sd.revisions = []string{""}
		}
		for _, body := range sd.revisions {
			update.Content = body
			if doc, err = s.svc.Documents.UpdateDocument(ctx, user.ID, update); err != nil {
				return nil, fmt.Errorf("update document %s: %w", sd.name, err)
			}
		}

		if len(sd.keywords) > 0 {
			if _, err := s.svc.Documents.SetKeywords(ctx, user.ID, doc.ID, sd.keywords); err != nil {
				return nil, fmt.Errorf("set keywords on %s: %w", sd.name, err)
			}
		}
		result.Documents++

		s.logger.Info("seeded document",
			"n", i+1,
			"path", sd.path+"/"+sd.name,
			"id", doc.ID,
			"version", doc.Version.String(),
		)
	}

	// Reload so the result carries the complete tree.
	if result.User, err = s.svc.Users.GetUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return result, nil
}

// ensurePath creates the folders of path that do not exist yet and returns
// the id of the last one. known maps already created paths to folder ids.
func (s *Seeder) ensurePath(ctx context.Context, userID, path string, known map[string]string) (string, int, error) {
	created := 0
	parent := known[""]
	current := ""
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		if current == "" {
			current = segment
		} else {
			current += "/" + segment
		}
		if id, ok := known[current]; ok {
			parent = id
			continue
		}

		f, err := s.svc.Folders.AddFolder(ctx, &docsysSvc.AddFolderRequest{
			UserID:   userID,
			Name:     segment,
			ParentID: parent,
		})
		if err != nil {
			return "", created, err
		}
		known[current] = f.ID
		parent = f.ID
		created++
	}
	return parent, created, nil
}
