package docsystem

import "docum/internal/uniqueness"

// Entity kinds and the collections they are stored in
const (
	KindUser        = "user"
	KindActivityLog = "activity_log"

	CollectionUsers       = "users"
	CollectionActivityLog = "activity_logs"
)

// UserSchema declares the uniqueness rules of users: user name and email are
// unique by themselves, name is unique together with surname.
var UserSchema = uniqueness.Schema{
	Kind:   KindUser,
	Fields: []string{"user_name", "email", "name", "surname", "is_deleted"},
	Constraints: []uniqueness.Descriptor{
		uniqueness.Unique("user_name"),
		uniqueness.Unique("email"),
		uniqueness.UniqueWith("name", "surname"),
	},
}

// ActivityLogSchema declares no constraints; every entry is accepted.
var ActivityLogSchema = uniqueness.Schema{
	Kind:   KindActivityLog,
	Fields: []string{"type", "user_id", "user_name"},
}

// Schemas returns every schema the application registers at startup.
func Schemas() []uniqueness.Schema {
	return []uniqueness.Schema{UserSchema, ActivityLogSchema}
}
