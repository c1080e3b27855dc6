package docsystem

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// ActivityType classifies an activity log entry
type ActivityType int

const (
	ActivityAddNewFolder ActivityType = iota
	ActivityAddNewDocument
	ActivityUpdateFolderName
	ActivityUpdateDocumentName
	ActivityUpdateDocumentContent
)

func (t ActivityType) String() string {
	switch t {
	case ActivityAddNewFolder:
		return "add_new_folder"
	case ActivityAddNewDocument:
		return "add_new_document"
	case ActivityUpdateFolderName:
		return "update_folder_name"
	case ActivityUpdateDocumentName:
		return "update_document_name"
	case ActivityUpdateDocumentContent:
		return "update_document_content"
	default:
		return "unknown"
	}
}

// ActivityLog is an append-only record of something a user did.
type ActivityLog struct {
	ID       string       `json:"id" bson:"_id"`
	Type     ActivityType `json:"type" bson:"type"`
	Content  string       `json:"content" bson:"content"`
	UserID   string       `json:"user_id" bson:"user_id"`
	UserName string       `json:"user_name" bson:"user_name"`
	LogTime  time.Time    `json:"log_time" bson:"log_time"`
}

// NewActivityLog creates an entry stamped at now.
func NewActivityLog(t ActivityType, user *User, content string, now time.Time) *ActivityLog {
	entry := &ActivityLog{
		ID:      uuid.NewString(),
		Type:    t,
		Content: content,
		LogTime: now,
	}
	if user != nil {
		entry.UserID = user.ID
		entry.UserName = user.UserName
	}
	return entry
}

// Validate implements validation.Validatable
func (a *ActivityLog) Validate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.ID, validation.Required),
		validation.Field(&a.UserName, validation.Required),
		validation.Field(&a.Type, validation.Min(ActivityAddNewFolder), validation.Max(ActivityUpdateDocumentContent)),
	)
}

// RecordID implements uniqueness.Record
func (a *ActivityLog) RecordID() string { return a.ID }

// FieldValue implements uniqueness.Record
func (a *ActivityLog) FieldValue(field string) (any, bool) {
	switch field {
	case "type":
		return a.Type, true
	case "user_id":
		return a.UserID, true
	case "user_name":
		return a.UserName, true
	default:
		return nil, false
	}
}
