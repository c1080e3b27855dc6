// Package uniqueness evaluates declarative per-field uniqueness constraints
// against a document store before a write.
//
// Each entity kind registers a Schema once at startup. A Descriptor on a
// field either requires the field to be unique by itself (Self), unique in
// combination with named sibling fields (With), or both. The registry turns
// the descriptors into a disjunction of conjunctions that any Store can run.
package uniqueness

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"docum/internal/domain"
	"docum/internal/domain/repositories"
)

// Descriptor is the constraint metadata attached to one field.
type Descriptor struct {
	Field string
	Self  bool
	With  []string
}

// Unique declares that field must be unique by itself.
func Unique(field string) Descriptor {
	return Descriptor{Field: field, Self: true}
}

// UniqueWith declares that field together with siblings must be unique.
func UniqueWith(field string, siblings ...string) Descriptor {
	return Descriptor{Field: field, With: siblings}
}

// Schema describes an entity kind: its storable fields and the constraints
// declared on them.
type Schema struct {
	Kind        string
	Fields      []string
	Constraints []Descriptor
}

// Record is a candidate instance the engine can inspect.
type Record interface {
	// RecordID returns the identity of the instance
	RecordID() string

	// FieldValue returns the current value of a declared field
	FieldValue(field string) (any, bool)
}

type compiledSchema struct {
	fields  []string
	clauses [][]string
}

// Registry maps entity kinds to their compiled constraints.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*compiledSchema
}

// NewRegistry creates a registry and registers the given schemas.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{kinds: make(map[string]*compiledSchema)}
	for _, s := range schemas {
		if err := r.Register(s); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and compiles a schema. Descriptors naming unknown fields
// are rejected here rather than skipped at query time.
func (r *Registry) Register(s Schema) error {
	if s.Kind == "" {
		return &domain.ConfigurationError{Message: "schema kind is required"}
	}

	known := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		if err := repositories.ValidateField(f); err != nil {
			return &domain.ConfigurationError{Kind: s.Kind, Message: err.Error()}
		}
		known[strings.ToLower(f)] = f
	}

	compiled := &compiledSchema{fields: append([]string(nil), s.Fields...)}
	seen := make(map[string]bool)
	addClause := func(fields []string) {
		key := strings.Join(fields, "&")
		if seen[key] {
			return
		}
		seen[key] = true
		compiled.clauses = append(compiled.clauses, fields)
	}

	for _, d := range s.Constraints {
		field, ok := known[strings.ToLower(d.Field)]
		if !ok {
			return &domain.ConfigurationError{
				Kind:    s.Kind,
				Message: fmt.Sprintf("constraint on unknown field %q", d.Field),
			}
		}
		if !d.Self && len(d.With) == 0 {
			return &domain.ConfigurationError{
				Kind:    s.Kind,
				Message: fmt.Sprintf("constraint on %q is neither self nor composite", field),
			}
		}

		if d.Self {
			addClause([]string{field})
		}

		if len(d.With) > 0 {
			fields := []string{field}
			for _, name := range d.With {
				sibling, ok := known[strings.ToLower(name)]
				if !ok {
					return &domain.ConfigurationError{
						Kind:    s.Kind,
						Message: fmt.Sprintf("constraint on %q names unknown sibling %q", field, name),
					}
				}
				fields = append(fields, sibling)
			}
			addClause(fields)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.kinds[s.Kind]; exists {
		return &domain.ConfigurationError{Kind: s.Kind, Message: "kind registered twice"}
	}
	r.kinds[s.Kind] = compiled
	return nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Indexes returns the field sets that must each be unique for kind, one per
// clause. Stores build unique indexes from them.
func (r *Registry) Indexes(kind string) ([][]string, error) {
	compiled, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	out := make([][]string, len(compiled.clauses))
	for i, c := range compiled.clauses {
		out[i] = append([]string(nil), c...)
	}
	return out, nil
}

// Filter builds the existence query for rec: one conjunction per clause,
// all clauses OR-ed. A kind without constraints yields an empty filter.
func (r *Registry) Filter(kind string, rec Record) (repositories.Filter, error) {
	compiled, err := r.lookup(kind)
	if err != nil {
		return nil, err
	}

	filter := make(repositories.Filter, 0, len(compiled.clauses))
	for _, fields := range compiled.clauses {
		clause := make(repositories.Clause, 0, len(fields))
		for _, f := range fields {
			v, ok := rec.FieldValue(f)
			if !ok {
				return nil, &domain.ConfigurationError{
					Kind:    kind,
					Message: fmt.Sprintf("record does not expose constrained field %q", f),
				}
			}
			clause = append(clause, repositories.Condition{Field: f, Value: v})
		}
		filter = append(filter, clause)
	}
	return filter, nil
}

// Keys returns one canonical lock key per clause for rec, sorted. Two records
// that would collide on a clause produce the same key for it.
func (r *Registry) Keys(kind string, rec Record) ([]string, error) {
	filter, err := r.Filter(kind, rec)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(filter))
	for _, clause := range filter {
		parts := make([]string, 0, len(clause))
		for _, c := range clause {
			data, err := repositories.CanonicalJSON(c.Value)
			if err != nil {
				return nil, fmt.Errorf("lock key for %s.%s: %w", kind, c.Field, err)
			}
			parts = append(parts, c.Field+"="+string(data))
		}
		keys = append(keys, kind+"|"+strings.Join(parts, "&"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Registry) lookup(kind string) (*compiledSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	compiled, ok := r.kinds[kind]
	if !ok {
		return nil, &domain.ConfigurationError{Kind: kind, Message: "kind is not registered"}
	}
	return compiled, nil
}
