package docsystem

import (
	"fmt"
	"strings"
	"time"

	"docum/internal/domain"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// DocType tags the document format
type DocType int

const (
	DocTypeWord DocType = iota
)

func (t DocType) String() string {
	switch t {
	case DocTypeWord:
		return "word"
	default:
		return "unknown"
	}
}

// AccessType is the permission an AccessGrant gives
type AccessType int

const (
	AccessRead AccessType = iota
	AccessWrite
	AccessReadAndWrite
)

func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	case AccessReadAndWrite:
		return "read_write"
	default:
		return "unknown"
	}
}

// ParseAccessType parses the String form of an AccessType.
func ParseAccessType(s string) (AccessType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read":
		return AccessRead, nil
	case "write":
		return AccessWrite, nil
	case "read_write":
		return AccessReadAndWrite, nil
	default:
		return 0, fmt.Errorf("%w: unknown access type %q", domain.ErrValidation, s)
	}
}

// AccessGrant lets another user reach a document
type AccessGrant struct {
	UserID   string     `json:"user_id" bson:"user_id"`
	UserName string     `json:"user_name" bson:"user_name"`
	Access   AccessType `json:"access" bson:"access"`
}

// Validate implements validation.Validatable
func (g AccessGrant) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.UserID, validation.Required),
		validation.Field(&g.Access, validation.In(AccessRead, AccessWrite, AccessReadAndWrite)),
	)
}

// Document is owned by exactly one folder. It is created empty and changed
// only through id-addressed updates.
type Document struct {
	ID           string        `json:"id" bson:"id"`
	Name         string        `json:"name" bson:"name"`
	Content      string        `json:"content" bson:"content"`
	Type         DocType       `json:"type" bson:"type"`
	Version      Version       `json:"version" bson:"version"`
	IsPublic     bool          `json:"is_public" bson:"is_public"`
	IsCurrent    bool          `json:"is_current" bson:"is_current"`
	AccessGrants []AccessGrant `json:"access_grants" bson:"access_grants"`
	Keywords     []string      `json:"keywords" bson:"keywords"`
	History      `bson:",inline"`
}

// NewDocument creates an empty document with default metadata.
func NewDocument(now time.Time) *Document {
	return &Document{
		ID:           uuid.NewString(),
		Name:         DefaultDocumentName,
		Type:         DocTypeWord,
		Version:      Version{},
		IsPublic:     false,
		IsCurrent:    true,
		AccessGrants: []AccessGrant{},
		Keywords:     []string{},
		History:      History{CreatedAt: now},
	}
}

// Validate implements validation.Validatable
func (d *Document) Validate() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.ID, validation.Required),
		validation.Field(&d.Name, validation.Required, validation.Length(1, MaxDocumentNameLength)),
		validation.Field(&d.Type, validation.In(DocTypeWord)),
		validation.Field(&d.AccessGrants),
		validation.Field(&d.Keywords, validation.Length(0, MaxKeywords)),
	)
}

// SetKeywords stores keywords NFC-normalized and trimmed, dropping empty
// entries and duplicates while keeping first-seen order.
func (d *Document) SetKeywords(keywords []string) {
	out := make([]string, 0, len(keywords))
	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(norm.NFC.String(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	d.Keywords = out
}

// Grant adds grant, replacing an existing grant for the same user.
func (d *Document) Grant(grant AccessGrant) {
	for i := range d.AccessGrants {
		if d.AccessGrants[i].UserID == grant.UserID {
			d.AccessGrants[i] = grant
			return
		}
	}
	d.AccessGrants = append(d.AccessGrants, grant)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.History = d.History.clone()
	out.AccessGrants = append([]AccessGrant{}, d.AccessGrants...)
	out.Keywords = append([]string{}, d.Keywords...)
	return &out
}
