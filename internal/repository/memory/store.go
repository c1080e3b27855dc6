// Package memory is an in-process Store. Documents are kept as JSON so
// filters compare values exactly the way the JSON-backed stores do.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"docum/internal/domain"
	"docum/internal/domain/repositories"
)

type collection struct {
	order []string
	docs  map[string][]byte
}

// Store implements repositories.Store in memory.
type Store struct {
	mu          sync.RWMutex
	prefix      string
	collections map[string]*collection
	uniques     map[string][][]string
	logger      *slog.Logger
}

// NewStore creates an empty store. prefix is prepended to collection names.
func NewStore(prefix string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		prefix:      prefix,
		collections: make(map[string]*collection),
		uniques:     make(map[string][][]string),
		logger:      logger,
	}
}

func (s *Store) name(coll string) (string, error) {
	if err := repositories.ValidateCollection(coll); err != nil {
		return "", err
	}
	return s.prefix + coll, nil
}

// Insert implements repositories.Store
func (s *Store) Insert(ctx context.Context, coll, id string, item any) error {
	return s.write(ctx, coll, id, item, false)
}

// Save implements repositories.Store
func (s *Store) Save(ctx context.Context, coll, id string, item any) error {
	return s.write(ctx, coll, id, item, true)
}

func (s *Store) write(ctx context.Context, coll, id string, item any, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.name(coll)
	if err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}

	_, exists := c.docs[id]
	if exists && !upsert {
		return fmt.Errorf("%s %s: %w", name, id, domain.ErrConflict)
	}

	if err := s.checkUnique(name, c, id, data); err != nil {
		return err
	}

	if !exists {
		c.order = append(c.order, id)
	}
	c.docs[id] = data
	return nil
}

// checkUnique enforces the declared unique field sets against every other
// document of the collection.
func (s *Store) checkUnique(name string, c *collection, id string, data []byte) error {
	specs := s.uniques[name]
	if len(specs) == 0 {
		return nil
	}

	candidate, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, fields := range specs {
		for otherID, other := range c.docs {
			if otherID == id {
				continue
			}
			stored, err := decodeFields(other)
			if err != nil {
				return err
			}
			if sameValues(candidate, stored, fields) {
				return fmt.Errorf("%s unique (%s): %w", name, strings.Join(fields, ", "), domain.ErrConflict)
			}
		}
	}
	return nil
}

// Find implements repositories.Store
func (s *Store) Find(ctx context.Context, coll string, filter repositories.Filter, limit int) ([]repositories.StoredItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := s.name(coll)
	if err != nil {
		return nil, err
	}
	compiled, err := compile(filter)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, nil
	}

	var out []repositories.StoredItem
	for _, id := range c.order {
		data := c.docs[id]
		if len(compiled) > 0 {
			fields, err := decodeFields(data)
			if err != nil {
				return nil, err
			}
			if !compiled.matches(fields) {
				continue
			}
		}
		out = append(out, repositories.JSONItem{ID: id, Data: data})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// FindByID implements repositories.Store
func (s *Store) FindByID(ctx context.Context, coll, id string) (repositories.StoredItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := s.name(coll)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[name]; ok {
		if data, ok := c.docs[id]; ok {
			return repositories.JSONItem{ID: id, Data: data}, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", name, id, domain.ErrNotFound)
}

// Drop implements repositories.Store
func (s *Store) Drop(ctx context.Context, coll string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	name, err := s.name(coll)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.collections[name]
	delete(s.collections, name)
	return existed, nil
}

// EnsureUnique implements repositories.Store
func (s *Store) EnsureUnique(ctx context.Context, coll string, fields []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := s.name(coll)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := repositories.ValidateField(f); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.Join(fields, ",")
	for _, existing := range s.uniques[name] {
		if strings.Join(existing, ",") == key {
			return nil
		}
	}
	s.uniques[name] = append(s.uniques[name], append([]string(nil), fields...))
	s.logger.Debug("unique index declared", "collection", name, "fields", fields)
	return nil
}

// Close implements repositories.Store
func (s *Store) Close() error { return nil }

type compiledFilter [][]compiledCondition

type compiledCondition struct {
	field string
	value []byte
}

func compile(filter repositories.Filter) (compiledFilter, error) {
	out := make(compiledFilter, 0, len(filter))
	for _, clause := range filter {
		conds := make([]compiledCondition, 0, len(clause))
		for _, c := range clause {
			if err := repositories.ValidateField(c.Field); err != nil {
				return nil, err
			}
			value, err := repositories.CanonicalJSON(c.Value)
			if err != nil {
				return nil, err
			}
			conds = append(conds, compiledCondition{field: c.Field, value: value})
		}
		out = append(out, conds)
	}
	return out, nil
}

func (f compiledFilter) matches(fields map[string]json.RawMessage) bool {
	for _, clause := range f {
		ok := true
		for _, c := range clause {
			if !bytes.Equal(fields[c.field], c.value) {
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

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	return fields, nil
}

func sameValues(a, b map[string]json.RawMessage, fields []string) bool {
	for _, f := range fields {
		av, aok := a[f]
		bv, bok := b[f]
		if !aok || !bok || !bytes.Equal(av, bv) {
			return false
		}
	}
	return true
}
