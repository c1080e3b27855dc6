// Package app wires configuration, storage, repositories and services into
// one value shared by the CLI and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"docum/internal/config"
	models "docum/internal/domain/models/docsystem"
	"docum/internal/domain/repositories"
	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/repository"
	"docum/internal/repository/memory"
	"docum/internal/repository/mongo"
	"docum/internal/repository/postgres"
	"docum/internal/repository/sqlite"
	docsysService "docum/internal/service/docsystem"
	"docum/internal/service/docsystem/converter"
	"docum/internal/uniqueness"
)

// App holds the wired services.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	Store    repositories.Store
	Users    *repository.Repository[*models.User]
	Activity *repository.Repository[*models.ActivityLog]

	UserService     docsysSvc.UserService
	FolderService   docsysSvc.FolderService
	DocumentService docsysSvc.DocumentService
	TreeService     docsysSvc.TreeService
	ActivityService docsysSvc.ActivityLogService

	aggregates *docsysService.Aggregates
}

// New opens the configured store, declares unique indexes and builds the
// services. Close releases the store.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, tx, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a, err := build(ctx, cfg, store, tx, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, store repositories.Store, tx repositories.TransactionManager, logger *slog.Logger) (*App, error) {
	registry, err := uniqueness.NewRegistry(models.Schemas()...)
	if err != nil {
		return nil, err
	}

	repoCfg := repository.Config{
		Store:    store,
		Registry: registry,
		Locks:    repository.NewKeyedMutex(),
		Tx:       tx,
		Logger:   logger,
	}
	users, err := repository.New(repoCfg, models.KindUser, models.CollectionUsers, func() *models.User { return &models.User{} })
	if err != nil {
		return nil, err
	}
	logs, err := repository.New(repoCfg, models.KindActivityLog, models.CollectionActivityLog, func() *models.ActivityLog { return &models.ActivityLog{} })
	if err != nil {
		return nil, err
	}

	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	if err := logs.EnsureIndexes(ctx); err != nil {
		return nil, err
	}

	aggregates, err := docsysService.NewAggregates(users, nil, cfg.UserCacheSize, logger)
	if err != nil {
		return nil, err
	}
	activity := docsysService.NewActivityLogService(logs, logger)

	logger.Info("store ready",
		"driver", cfg.StoreDriver,
		"prefix", cfg.TablePrefix,
		"transactions", tx != nil,
	)

	return &App{
		Config:          cfg,
		Logger:          logger,
		Store:           store,
		Users:           users,
		Activity:        logs,
		UserService:     docsysService.NewUserService(users, aggregates, logger),
		FolderService:   docsysService.NewFolderService(aggregates, activity, logger),
		DocumentService: docsysService.NewDocumentService(aggregates, activity, converter.NewRegistry(), cfg.VersionRollover, logger),
		TreeService:     docsysService.NewTreeService(aggregates, logger),
		ActivityService: activity,
		aggregates:      aggregates,
	}, nil
}

// openStore connects the driver named in cfg. Only postgres supplies a
// transaction manager; the other drivers rely on the keyed locks and unique
// indexes.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.Store, repositories.TransactionManager, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewStore(cfg.TablePrefix, logger), nil, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, cfg.TablePrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.DriverPostgres:
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewStore(&postgres.StoreConfig{
			Pool:   pool,
			Prefix: cfg.TablePrefix,
			Logger: logger,
		})
		return store, postgres.NewTransactionManager(pool, logger), nil

	case config.DriverMongo:
		store, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.TablePrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Reset drops both collections and empties the user cache. Unique indexes
// are re-declared on the next write.
func (a *App) Reset(ctx context.Context) error {
	a.aggregates.Purge()
	if _, err := a.Users.Drop(ctx); err != nil {
		return err
	}
	if _, err := a.Activity.Drop(ctx); err != nil {
		return err
	}
	return nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
