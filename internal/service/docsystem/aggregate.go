package docsystem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docum/internal/domain"
	models "docum/internal/domain/models/docsystem"
	docsysRepo "docum/internal/domain/repositories/docsystem"
	"docum/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Aggregates loads and persists user aggregates for the services.
//
// Every mutation runs under a per-user lock: load, traverse, mutate and save
// happen as one unit, so two concurrent edits of the same tree cannot lose
// each other's changes. Mutations always start from the stored aggregate,
// never from the cache, because other processes may write the same store.
// They are applied to a private copy; a failed save leaves the stored
// aggregate untouched and evicts the cached one.
type Aggregates struct {
	users  docsysRepo.UserRepository
	locks  *repository.KeyedMutex
	cache  *lru.Cache[string, *models.User]
	now    func() time.Time
	logger *slog.Logger
}

// NewAggregates creates the aggregate loader. cacheSize <= 0 disables the
// read cache.
func NewAggregates(users docsysRepo.UserRepository, locks *repository.KeyedMutex, cacheSize int, logger *slog.Logger) (*Aggregates, error) {
	if locks == nil {
		locks = repository.NewKeyedMutex()
	}
	a := &Aggregates{
		users:  users,
		locks:  locks,
		now:    time.Now,
		logger: logger,
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, *models.User](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create user cache: %w", err)
		}
		a.cache = cache
	}
	return a, nil
}

// SetClock overrides the time source used for history stamps.
func (a *Aggregates) SetClock(now func() time.Time) {
	a.now = now
}

func lockKey(userID string) string {
	return "aggregate|" + userID
}

// Load returns a private copy of the user for read paths. It may be served
// from the cache.
func (a *Aggregates) Load(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if a.cache != nil {
		if u, ok := a.cache.Get(userID); ok {
			return u.Clone(), nil
		}
	}
	return a.fetch(ctx, userID)
}

// LoadActive reads the user from the store and rejects soft-deleted users
// with a not-found error.
func (a *Aggregates) LoadActive(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	u, err := a.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("user %s is deleted", userID)}
	}
	return u, nil
}

// fetch reads the stored user and refreshes the cache with it.
func (a *Aggregates) fetch(ctx context.Context, userID string) (*models.User, error) {
	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.remember(u)
	return u, nil
}

// Mutate loads the stored user under its lock, applies fn and saves the
// result. Soft-deleted users cannot be changed.
func (a *Aggregates) Mutate(ctx context.Context, userID string, fn func(u *models.User) error) (*models.User, error) {
	unlock := a.locks.Lock(lockKey(userID))
	defer unlock()

	u, err := a.LoadActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(u); err != nil {
		return nil, err
	}

	if err := a.users.Save(ctx, u, true); err != nil {
		a.forget(userID)
		a.logger.Debug("user save rejected", "user_id", userID, "error", err)
		return nil, err
	}
	a.remember(u)
	return u, nil
}

// Insert stores a new user and primes the cache with it.
func (a *Aggregates) Insert(ctx context.Context, u *models.User) error {
	unlock := a.locks.Lock(lockKey(u.ID))
	defer unlock()

	if err := a.users.Insert(ctx, u); err != nil {
		return err
	}
	a.remember(u)
	return nil
}

// Purge empties the read cache.
func (a *Aggregates) Purge() {
	if a.cache != nil {
		a.cache.Purge()
	}
}

func (a *Aggregates) remember(u *models.User) {
	if a.cache != nil {
		a.cache.Add(u.ID, u.Clone())
	}
}

func (a *Aggregates) forget(userID string) {
	if a.cache != nil {
		a.cache.Remove(userID)
	}
}
