package uniqueness

import (
	"context"
	"errors"
	"testing"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	id     string
	fields map[string]any
}

func (r record) RecordID() string { return r.id }

func (r record) FieldValue(field string) (any, bool) {
	v, ok := r.fields[field]
	return v, ok
}

var personSchema = Schema{
	Kind:   "person",
	Fields: []string{"user_name", "email", "name", "surname"},
	Constraints: []Descriptor{
		Unique("user_name"),
		Unique("email"),
		UniqueWith("name", "Surname"),
	},
}

func person(id, userName, email, name, surname string) record {
	return record{id: id, fields: map[string]any{
		"user_name": userName,
		"email":     email,
		"name":      name,
		"surname":   surname,
	}}
}

func TestRegisterRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{name: "empty kind", schema: Schema{Fields: []string{"a"}}},
		{
			name:   "unknown field",
			schema: Schema{Kind: "k", Fields: []string{"a"}, Constraints: []Descriptor{Unique("b")}},
		},
		{
			name:   "unknown sibling",
			schema: Schema{Kind: "k", Fields: []string{"a"}, Constraints: []Descriptor{UniqueWith("a", "missing")}},
		},
		{
			name:   "neither self nor composite",
			schema: Schema{Kind: "k", Fields: []string{"a"}, Constraints: []Descriptor{{Field: "a"}}},
		},
		{
			name:   "unsafe field name",
			schema: Schema{Kind: "k", Fields: []string{"a'; drop"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.schema)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		})
	}
}

func TestRegisterTwice(t *testing.T) {
	r, err := NewRegistry(personSchema)
	require.NoError(t, err)

	err = r.Register(personSchema)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestIndexes(t *testing.T) {
	r, err := NewRegistry(personSchema, Schema{Kind: "log", Fields: []string{"type"}})
	require.NoError(t, err)

	indexes, err := r.Indexes("person")
	require.NoError(t, err)
	// Sibling names resolve case-insensitively to the declared field.
	assert.Equal(t, [][]string{{"user_name"}, {"email"}, {"name", "surname"}}, indexes)

	indexes, err = r.Indexes("log")
	require.NoError(t, err)
	assert.Empty(t, indexes)

	_, err = r.Indexes("unknown")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	assert.Equal(t, []string{"log", "person"}, r.Kinds())
}

func TestSelfAndCompositeOnOneField(t *testing.T) {
	r, err := NewRegistry(Schema{
		Kind:   "k",
		Fields: []string{"a", "b"},
		Constraints: []Descriptor{
			{Field: "a", Self: true, With: []string{"b"}},
			Unique("a"),
		},
	})
	require.NoError(t, err)

	indexes, err := r.Indexes("k")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"a", "b"}}, indexes, "duplicate clauses collapse")
}

func TestFilter(t *testing.T) {
	r, err := NewRegistry(personSchema)
	require.NoError(t, err)

	filter, err := r.Filter("person", person("1", "sakyazici", "s@example.com", "Serkan", "Akyazici"))
	require.NoError(t, err)

	want := repositories.Filter{
		{{Field: "user_name", Value: "sakyazici"}},
		{{Field: "email", Value: "s@example.com"}},
		{{Field: "name", Value: "Serkan"}, {Field: "surname", Value: "Akyazici"}},
	}
	assert.Equal(t, want, filter)

	_, err = r.Filter("person", record{id: "1", fields: map[string]any{"user_name": "x"}})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestKeys(t *testing.T) {
	r, err := NewRegistry(personSchema)
	require.NoError(t, err)

	a, err := r.Keys("person", person("1", "same", "a@example.com", "A", "B"))
	require.NoError(t, err)
	b, err := r.Keys("person", person("2", "same", "b@example.com", "C", "D"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		`person|email="a@example.com"`,
		`person|name="A"&surname="B"`,
		`person|user_name="same"`,
	}, a)
	assert.Contains(t, b, `person|user_name="same"`)
}

// fakeFinder evaluates filters over an in-memory slice of records.
type fakeFinder struct {
	records []record
	calls   int
}

func (f *fakeFinder) Find(_ context.Context, _ string, filter repositories.Filter, limit int) ([]repositories.StoredItem, error) {
	f.calls++
	var out []repositories.StoredItem
	for _, rec := range f.records {
		if !matches(rec, filter) {
			continue
		}
		out = append(out, repositories.JSONItem{ID: rec.id})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matches(rec record, filter repositories.Filter) bool {
	for _, clause := range filter {
		ok := true
		for _, c := range clause {
			if rec.fields[c.Field] != c.Value {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func TestCheck(t *testing.T) {
	stored := person("existing", "sakyazici", "s@example.com", "Serkan", "Akyazici")

	tests := []struct {
		name       string
		stored     []record
		candidate  record
		conflict   bool
		existingID string
		fields     []string
	}{
		{
			name:      "empty store",
			candidate: person("new", "sakyazici", "s@example.com", "Serkan", "Akyazici"),
		},
		{
			name:      "no overlap",
			stored:    []record{stored},
			candidate: person("new", "other", "o@example.com", "Other", "Person"),
		},
		{
			name:       "self field taken",
			stored:     []record{stored},
			candidate:  person("new", "sakyazici", "o@example.com", "Other", "Person"),
			conflict:   true,
			existingID: "existing",
			fields:     []string{"user_name"},
		},
		{
			name:       "composite taken",
			stored:     []record{stored},
			candidate:  person("new", "other", "o@example.com", "Serkan", "Akyazici"),
			conflict:   true,
			existingID: "existing",
			fields:     []string{"name", "surname"},
		},
		{
			name:      "composite half equal",
			stored:    []record{stored},
			candidate: person("new", "other", "o@example.com", "Serkan", "Other"),
		},
		{
			name:      "matches only itself",
			stored:    []record{stored},
			candidate: stored,
		},
		{
			name: "more than one match fails closed",
			stored: []record{
				stored,
				person("dup", "sakyazici", "d@example.com", "D", "D"),
			},
			candidate:  stored,
			conflict:   true,
			existingID: "dup",
			fields:     []string{"user_name"},
		},
	}

	r, err := NewRegistry(personSchema)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &fakeFinder{records: tt.stored}
			decision, err := NewChecker(r, finder).Check(context.Background(), "people", "person", tt.candidate)
			require.NoError(t, err)

			assert.Equal(t, tt.conflict, decision.Conflict)
			assert.Equal(t, tt.existingID, decision.ExistingID)
			assert.Equal(t, tt.fields, decision.Fields)
		})
	}
}

func TestCheckWithoutConstraintsNeverQueries(t *testing.T) {
	r, err := NewRegistry(Schema{Kind: "log", Fields: []string{"type"}})
	require.NoError(t, err)

	finder := &fakeFinder{records: []record{{id: "a", fields: map[string]any{"type": 1}}}}
	decision, err := NewChecker(r, finder).Check(context.Background(), "logs", "log", record{id: "b", fields: map[string]any{"type": 1}})
	require.NoError(t, err)
	assert.False(t, decision.Conflict)
	assert.Zero(t, finder.calls)
}
