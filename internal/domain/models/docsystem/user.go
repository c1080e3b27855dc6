package docsystem

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// User owns exactly one tree. Every folder and document of the user is
// reachable only through RootFolder.
type User struct {
	ID         string  `json:"id" bson:"_id"`
	UserName   string  `json:"user_name" bson:"user_name"`
	Email      string  `json:"email" bson:"email"`
	Name       string  `json:"name" bson:"name"`
	Surname    string  `json:"surname" bson:"surname"`
	IsDeleted  bool    `json:"is_deleted" bson:"is_deleted"`
	RootFolder *Folder `json:"root_folder" bson:"root_folder"`
}

// NewUser creates a user with a fresh id and an empty "Root" folder.
func NewUser(userName, email, name, surname, rootName string, now time.Time) *User {
	u := &User{
		ID:       uuid.NewString(),
		UserName: userName,
		Email:    email,
		Name:     name,
		Surname:  surname,
	}
	u.RootFolder = NewFolder(rootName, u.ID, now)
	return u
}

// Validate implements validation.Validatable
func (u *User) Validate() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.ID, validation.Required),
		validation.Field(&u.UserName, validation.Required, validation.Length(1, MaxUserFieldLength)),
		validation.Field(&u.Email, validation.Required, is.EmailFormat, validation.Length(1, MaxUserFieldLength)),
		validation.Field(&u.Name, validation.Required, validation.Length(1, MaxUserFieldLength)),
		validation.Field(&u.Surname, validation.Required, validation.Length(1, MaxUserFieldLength)),
		validation.Field(&u.RootFolder, validation.Required),
	)
}

// RecordID implements uniqueness.Record
func (u *User) RecordID() string { return u.ID }

// FieldValue implements uniqueness.Record
func (u *User) FieldValue(field string) (any, bool) {
	switch field {
	case "user_name":
		return u.UserName, true
	case "email":
		return u.Email, true
	case "name":
		return u.Name, true
	case "surname":
		return u.Surname, true
	case "is_deleted":
		return u.IsDeleted, true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of the user aggregate.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.RootFolder = u.RootFolder.Clone()
	return &out
}
