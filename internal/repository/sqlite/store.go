// Package sqlite is a Store backed by a SQLite file. Each collection is a
// table of (id, data) rows holding JSON documents; filters and unique
// indexes address document fields with json_extract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

// Store implements repositories.Store on SQLite.
type Store struct {
	db     *sqlx.DB
	prefix string
	logger *slog.Logger

	mu      sync.Mutex
	ready   map[string]bool
	uniques map[string][][]string
}

type row struct {
	ID   string `db:"id"`
	Data string `db:"data"`
}

// Open creates or opens the database at path. prefix is prepended to every
// table name.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
func Open(path, prefix string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to sqlite database: %w", err)
	}

	// SQLite has a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite store opened", "path", path, "prefix", prefix)
	return &Store{
		db:      db,
		prefix:  prefix,
		logger:  logger,
		ready:   make(map[string]bool),
		uniques: make(map[string][][]string),
	}, nil
}

func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close implements repositories.Store
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) table(coll string) (string, error) {
	if err := repositories.ValidateCollection(coll); err != nil {
		return "", err
	}
	return s.prefix + coll, nil
}

// ensureTable creates the table on first use and (re)applies declared unique
// indexes, so indexes survive a Drop.
func (s *Store) ensureTable(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready[table] {
		return nil
	}

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id   TEXT PRIMARY KEY,
		data TEXT NOT NULL
	)`, quoteIdent(table))
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	for _, fields := range s.uniques[table] {
		if err := s.createIndex(ctx, table, fields); err != nil {
			return err
		}
	}

	s.ready[table] = true
	return nil
}

func (s *Store) createIndex(ctx context.Context, table string, fields []string) error {
	exprs := make([]string, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, fmt.Sprintf("json_extract(data, '$.%s')", f))
	}
	name := table + "_uq_" + strings.Join(fields, "_")
	query := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)",
		quoteIdent(name), quoteIdent(table), strings.Join(exprs, ", "))

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("index %s: existing rows violate it: %w", name, domain.ErrConflict)
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// exists reports whether table is present, creating nothing.
func (s *Store) exists(ctx context.Context, table string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return n > 0, nil
}

// readable prepares table for a read. A table that was never written reads
// as empty without being created.
func (s *Store) readable(ctx context.Context, table string) (bool, error) {
	s.mu.Lock()
	ready := s.ready[table]
	s.mu.Unlock()
	if ready {
		return true, nil
	}

	ok, err := s.exists(ctx, table)
	if err != nil || !ok {
		return false, err
	}
	return true, s.ensureTable(ctx, table)
}

// Insert implements repositories.Store
func (s *Store) Insert(ctx context.Context, coll, id string, item any) error {
	return s.write(ctx, coll, id, item, "INSERT INTO %s (id, data) VALUES (?, ?)")
}

// Save implements repositories.Store
func (s *Store) Save(ctx context.Context, coll, id string, item any) error {
	return s.write(ctx, coll, id, item,
		"INSERT INTO %s (id, data) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET data = excluded.data")
}

func (s *Store) write(ctx context.Context, coll, id string, item any, statement string) error {
	table, err := s.table(coll)
	if err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	if err := s.ensureTable(ctx, table); err != nil {
		return err
	}

	query := fmt.Sprintf(statement, quoteIdent(table))
	if _, err := s.db.ExecContext(ctx, query, id, string(data)); err != nil {
		if isConstraintError(err) {
			return fmt.Errorf("%s %s: %v: %w", table, id, err, domain.ErrConflict)
		}
		return fmt.Errorf("write %s %s: %w", table, id, err)
	}
	return nil
}

// Find implements repositories.Store
func (s *Store) Find(ctx context.Context, coll string, filter repositories.Filter, limit int) ([]repositories.StoredItem, error) {
	table, err := s.table(coll)
	if err != nil {
		return nil, err
	}
	where, args, err := compileFilter(filter)
	if err != nil {
		return nil, err
	}
	ok, err := s.readable(ctx, table)
	if err != nil || !ok {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, data FROM %s", quoteIdent(table))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY rowid"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	var rows []row
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find in %s: %w", table, err)
	}

	out := make([]repositories.StoredItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, repositories.JSONItem{ID: r.ID, Data: []byte(r.Data)})
	}
	return out, nil
}

// FindByID implements repositories.Store
func (s *Store) FindByID(ctx context.Context, coll, id string) (repositories.StoredItem, error) {
	table, err := s.table(coll)
	if err != nil {
		return nil, err
	}
	ok, err := s.readable(ctx, table)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	}

	var r row
	query := fmt.Sprintf("SELECT id, data FROM %s WHERE id = ?", quoteIdent(table))
	if err := s.db.GetContext(ctx, &r, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %s: %w", table, id, err)
	}
	return repositories.JSONItem{ID: r.ID, Data: []byte(r.Data)}, nil
}

// Drop implements repositories.Store
func (s *Store) Drop(ctx context.Context, coll string) (bool, error) {
	table, err := s.table(coll)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.exists(ctx, table)
	if err != nil {
		return false, err
	}
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table)); err != nil {
		return false, fmt.Errorf("drop %s: %w", table, err)
	}
	delete(s.ready, table)
	return existed, nil
}

// EnsureUnique implements repositories.Store
func (s *Store) EnsureUnique(ctx context.Context, coll string, fields []string) error {
	table, err := s.table(coll)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if err := repositories.ValidateField(f); err != nil {
			return err
		}
	}

	s.mu.Lock()
	key := strings.Join(fields, ",")
	known := false
	for _, existing := range s.uniques[table] {
		if strings.Join(existing, ",") == key {
			known = true
			break
		}
	}
	if !known {
		s.uniques[table] = append(s.uniques[table], append([]string(nil), fields...))
	}
	ready := s.ready[table]
	s.mu.Unlock()

	if ready {
		if err := s.createIndex(ctx, table, fields); err != nil {
			return err
		}
	}
	s.logger.Debug("unique index declared", "table", table, "fields", fields)
	return nil
}

// compileFilter turns filter into a WHERE expression. Condition values are
// bound as JSON text and compared through json_extract on both sides so
// strings, numbers and booleans compare the way they were stored.
func compileFilter(filter repositories.Filter) (string, []any, error) {
	if filter.IsEmpty() {
		return "", nil, nil
	}

	var (
		ors  []string
		args []any
	)
	for _, clause := range filter {
		ands := make([]string, 0, len(clause))
		for _, c := range clause {
			if err := repositories.ValidateField(c.Field); err != nil {
				return "", nil, err
			}
			value, err := repositories.CanonicalJSON(c.Value)
			if err != nil {
				return "", nil, err
			}
			ands = append(ands, fmt.Sprintf("json_extract(data, '$.%s') = json_extract(?, '$')", c.Field))
			args = append(args, string(value))
		}
		ors = append(ors, "("+strings.Join(ands, " AND ")+")")
	}
	return strings.Join(ors, " OR "), args, nil
}

func isConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
