package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// Condition is an equality predicate on a top-level document field.
type Condition struct {
	Field string
	Value any
}

// Clause is a conjunction: a document matches when every condition holds.
type Clause []Condition

// Filter is a disjunction of clauses: a document matches when any clause
// matches. An empty filter matches every document.
type Filter []Clause

// Eq builds a single-condition clause.
func Eq(field string, value any) Clause {
	return Clause{{Field: field, Value: value}}
}

// IsEmpty reports whether the filter has no clauses.
func (f Filter) IsEmpty() bool {
	return len(f) == 0
}

// StoredItem is one document returned by a Store.
type StoredItem interface {
	// ItemID returns the identity the document was stored under
	ItemID() string

	// Decode unmarshals the document into dest
	Decode(dest any) error
}

// Store is the document-store collaborator. Implementations persist whole
// documents keyed by identity, grouped in named collections.
type Store interface {
	// Insert writes a new document. Returns an error wrapping domain.ErrConflict
	// when the id or a unique index is already taken.
	Insert(ctx context.Context, collection, id string, item any) error

	// Save inserts or overwrites the document stored under id.
	Save(ctx context.Context, collection, id string, item any) error

	// Find returns documents matching filter in insertion order.
	// limit <= 0 means no limit.
	Find(ctx context.Context, collection string, filter Filter, limit int) ([]StoredItem, error)

	// FindByID is a point lookup. Returns an error wrapping domain.ErrNotFound
	// when absent.
	FindByID(ctx context.Context, collection, id string) (StoredItem, error)

	// Drop removes the collection and reports whether it existed.
	Drop(ctx context.Context, collection string) (bool, error)

	// EnsureUnique declares that the combination of fields must be unique
	// across the collection. Idempotent; survives Drop.
	EnsureUnique(ctx context.Context, collection string, fields []string) error

	// Close releases the underlying connection.
	Close() error
}

var collectionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateCollection rejects collection names that are unsafe to use as
// table or collection identifiers.
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}

// ValidateField rejects field names that are unsafe to embed in queries.
func ValidateField(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("invalid field name %q", name)
	}
	return nil
}

// JSONItem is a StoredItem backed by a JSON document.
type JSONItem struct {
	ID   string
	Data []byte
}

// ItemID implements StoredItem
func (i JSONItem) ItemID() string { return i.ID }

// Decode implements StoredItem
func (i JSONItem) Decode(dest any) error {
	if err := json.Unmarshal(i.Data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", i.ID, err)
	}
	return nil
}

// CanonicalJSON encodes a condition value the way JSON-backed stores compare
// it against stored fields.
func CanonicalJSON(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	return data, nil
}
