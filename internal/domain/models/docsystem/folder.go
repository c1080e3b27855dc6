package docsystem

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// History carries the save stamps shared by folders and documents.
type History struct {
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	SavedAt     *time.Time `json:"saved_at,omitempty" bson:"saved_at,omitempty"`
	LastSavedBy string     `json:"last_saved_by,omitempty" bson:"last_saved_by,omitempty"`
}

// Stamp records a save by userName at now.
func (h *History) Stamp(userName string, now time.Time) {
	h.SavedAt = &now
	h.LastSavedBy = userName
}

// Folder is a node of a user's tree. Children are owned exclusively and no
// parent reference is kept, so cycles cannot be expressed.
type Folder struct {
	ID        string      `json:"id" bson:"id"`
	Name      string      `json:"name" bson:"name"`
	OwnerID   string      `json:"owner_id" bson:"owner_id"`
	Folders   []*Folder   `json:"folders" bson:"folders"`
	Documents []*Document `json:"documents" bson:"documents"`
	History   `bson:",inline"`
}

var folderNamePattern = regexp.MustCompile(`^[^/]+$`)

// NewFolder creates an empty folder with a fresh id.
func NewFolder(name, ownerID string, now time.Time) *Folder {
	return &Folder{
		ID:        uuid.NewString(),
		Name:      name,
		OwnerID:   ownerID,
		Folders:   []*Folder{},
		Documents: []*Document{},
		History: History{
			CreatedAt: now,
			SavedAt:   &now,
		},
	}
}

// Validate implements validation.Validatable
func (f *Folder) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Name,
			validation.Required,
			validation.Length(1, MaxFolderNameLength),
			validation.Match(folderNamePattern).Error("folder name cannot contain slashes"),
		),
	)
}

// AddFolder appends child to the folder's children.
func (f *Folder) AddFolder(child *Folder) {
	f.Folders = append(f.Folders, child)
}

// AddDocument appends doc to the documents directly held by the folder.
func (f *Folder) AddDocument(doc *Document) {
	f.Documents = append(f.Documents, doc)
}

// Clone returns a deep copy of the folder and its whole subtree.
func (f *Folder) Clone() *Folder {
	if f == nil {
		return nil
	}
	out := *f
	out.History = f.History.clone()
	out.Folders = make([]*Folder, 0, len(f.Folders))
	for _, child := range f.Folders {
		out.Folders = append(out.Folders, child.Clone())
	}
	out.Documents = make([]*Document, 0, len(f.Documents))
	for _, doc := range f.Documents {
		out.Documents = append(out.Documents, doc.Clone())
	}
	return &out
}

func (h History) clone() History {
	if h.SavedAt != nil {
		saved := *h.SavedAt
		h.SavedAt = &saved
	}
	return h
}
