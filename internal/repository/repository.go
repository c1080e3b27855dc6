// Package repository persists entity kinds in a document store behind the
// uniqueness engine.
//
// A Repository never writes a record that its kind's constraints reject. The
// constraint keys of the candidate are locked for the whole check+write, so
// two writers racing on the same values inside one process are serialized;
// unique indexes in the store cover writers in other processes.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docum/internal/domain"
	"docum/internal/domain/repositories"
	"docum/internal/uniqueness"
)

// Config holds the collaborators shared by every repository.
type Config struct {
	Store    repositories.Store
	Registry *uniqueness.Registry
	Locks    *KeyedMutex
	// Tx is optional. When set, each check+write runs in one transaction.
	Tx     repositories.TransactionManager
	Logger *slog.Logger
}

// Repository stores records of one kind in one collection.
type Repository[T uniqueness.Record] struct {
	store      repositories.Store
	registry   *uniqueness.Registry
	checker    *uniqueness.Checker
	locks      *KeyedMutex
	tx         repositories.TransactionManager
	logger     *slog.Logger
	kind       string
	collection string
	newItem    func() T
}

// New creates a repository for kind stored in collection. newItem returns an
// empty value that stored documents are decoded into.
func New[T uniqueness.Record](cfg Config, kind, collection string, newItem func() T) (*Repository[T], error) {
	if cfg.Store == nil || cfg.Registry == nil {
		return nil, &domain.ConfigurationError{Kind: kind, Message: "repository needs a store and a registry"}
	}
	if err := repositories.ValidateCollection(collection); err != nil {
		return nil, &domain.ConfigurationError{Kind: kind, Message: err.Error()}
	}
	// Fail fast on an unregistered kind instead of on the first write.
	if _, err := cfg.Registry.Indexes(kind); err != nil {
		return nil, err
	}

	locks := cfg.Locks
	if locks == nil {
		locks = NewKeyedMutex()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository[T]{
		store:      cfg.Store,
		registry:   cfg.Registry,
		checker:    uniqueness.NewChecker(cfg.Registry, cfg.Store),
		locks:      locks,
		tx:         cfg.Tx,
		logger:     logger.With("kind", kind),
		kind:       kind,
		collection: collection,
		newItem:    newItem,
	}, nil
}

// Kind returns the entity kind the repository stores.
func (r *Repository[T]) Kind() string { return r.kind }

// Insert writes a new record after its constraints approve it.
func (r *Repository[T]) Insert(ctx context.Context, item T) error {
	return r.write(ctx, item, true, func(ctx context.Context, id string) error {
		return r.store.Insert(ctx, r.collection, id, item)
	})
}

// Save upserts the record by identity. With enforce the record is checked
// against its constraints first; a record that only matches itself passes.
func (r *Repository[T]) Save(ctx context.Context, item T, enforce bool) error {
	return r.write(ctx, item, enforce, func(ctx context.Context, id string) error {
		return r.store.Save(ctx, r.collection, id, item)
	})
}

func (r *Repository[T]) write(ctx context.Context, item T, enforce bool, persist func(context.Context, string) error) error {
	id := item.RecordID()
	if id == "" {
		return &domain.ValidationError{Message: fmt.Sprintf("%s id is required", r.kind)}
	}

	keys, err := r.registry.Keys(r.kind, item)
	if err != nil {
		return err
	}
	unlock := r.locks.LockAll(keys)
	defer unlock()

	run := func(ctx context.Context) error {
		if enforce {
			decision, err := r.checker.Check(ctx, r.collection, r.kind, item)
			if err != nil {
				return err
			}
			if decision.Conflict {
				r.logger.Info("write rejected by uniqueness constraint",
					"id", id,
					"existing_id", decision.ExistingID,
					"fields", decision.Fields,
					"matches", decision.Matches,
				)
				return domain.NewConflictError(r.kind, decision.ExistingID, decision.Fields...)
			}
		}

		if err := persist(ctx, id); err != nil {
			return r.mapStoreError(id, err)
		}
		return nil
	}

	if r.tx != nil {
		err = r.tx.ExecTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("record written", "id", id, "enforced", enforce)
	return nil
}

// mapStoreError turns a store-level duplicate (primary key or unique index)
// into a ConflictError.
func (r *Repository[T]) mapStoreError(id string, err error) error {
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return err
	}
	if errors.Is(err, domain.ErrConflict) {
		r.logger.Info("write rejected by store", "id", id, "error", err)
		conflict = domain.NewConflictError(r.kind, "")
		conflict.Message = fmt.Sprintf("%s: %v", conflict.Message, err)
		return conflict
	}
	return fmt.Errorf("write %s %s: %w", r.kind, id, err)
}

// GetByID returns the record stored under id.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	stored, err := r.store.FindByID(ctx, r.collection, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, &domain.NotFoundError{Message: fmt.Sprintf("%s %s not found", r.kind, id)}
		}
		return zero, fmt.Errorf("get %s %s: %w", r.kind, id, err)
	}
	return r.decode(stored)
}

// GetAll returns every stored record in insertion order.
func (r *Repository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.Find(ctx, nil, 0)
}

// Find returns records matching filter. An empty filter matches everything;
// limit <= 0 means no limit.
func (r *Repository[T]) Find(ctx context.Context, filter repositories.Filter, limit int) ([]T, error) {
	stored, err := r.store.Find(ctx, r.collection, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}

	out := make([]T, 0, len(stored))
	for _, s := range stored {
		item, err := r.decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Exists reports whether storing item would violate a constraint of its kind.
// It never writes.
func (r *Repository[T]) Exists(ctx context.Context, item T) (bool, error) {
	decision, err := r.checker.Check(ctx, r.collection, r.kind, item)
	if err != nil {
		return false, err
	}
	return decision.Conflict, nil
}

// Drop removes the collection and reports whether it existed.
func (r *Repository[T]) Drop(ctx context.Context) (bool, error) {
	existed, err := r.store.Drop(ctx, r.collection)
	if err != nil {
		return false, fmt.Errorf("drop %s: %w", r.collection, err)
	}
	r.logger.Info("collection dropped", "collection", r.collection, "existed", existed)
	return existed, nil
}

// EnsureIndexes declares one unique index per constraint clause of the kind.
func (r *Repository[T]) EnsureIndexes(ctx context.Context) error {
	indexes, err := r.registry.Indexes(r.kind)
	if err != nil {
		return err
	}
	for _, fields := range indexes {
		if err := r.store.EnsureUnique(ctx, r.collection, fields); err != nil {
			return fmt.Errorf("ensure unique %v on %s: %w", fields, r.collection, err)
		}
	}
	return nil
}

func (r *Repository[T]) decode(stored repositories.StoredItem) (T, error) {
	item := r.newItem()
	if err := stored.Decode(item); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", r.kind, err)
	}
	return item, nil
}
