package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"docum/internal/domain"
	"docum/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements repositories.Store on PostgreSQL. Each collection is a
// table of JSONB documents keyed by id; seq keeps insertion order.
type Store struct {
	pool   *pgxpool.Pool
	prefix string
	logger *slog.Logger

	mu      sync.Mutex
	ready   map[string]bool
	uniques map[string][][]string
}

// NewStore creates a store over an open pool
func NewStore(cfg *StoreConfig) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		pool:    cfg.Pool,
		prefix:  cfg.Prefix,
		logger:  logger,
		ready:   make(map[string]bool),
		uniques: make(map[string][][]string),
	}
}

// Close implements repositories.Store
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) table(coll string) (string, error) {
	if err := repositories.ValidateCollection(coll); err != nil {
		return "", err
	}
	return TableName(s.prefix, coll), nil
}

func (s *Store) ensureTable(ctx context.Context, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready[table] {
		return nil
	}

	create := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		seq  BIGSERIAL,
		id   TEXT PRIMARY KEY,
		data JSONB NOT NULL
	)`, ident(table))
	if _, err := s.pool.Exec(ctx, create); err != nil {
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
	query := indexStatement(table, fields)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("unique index on %s %v: existing rows violate it: %w", table, fields, domain.ErrConflict)
		}
		return fmt.Errorf("create unique index on %s %v: %w", table, fields, err)
	}
	return nil
}

func indexStatement(table string, fields []string) string {
	exprs := make([]string, 0, len(fields))
	for _, f := range fields {
		exprs = append(exprs, fmt.Sprintf("(data->'%s')", f))
	}
	name := table + "_uq_" + strings.Join(fields, "_")
	return fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s)",
		ident(name), ident(table), strings.Join(exprs, ", "))
}

func (s *Store) exists(ctx context.Context, table string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, "SELECT to_regclass($1::text) IS NOT NULL", ident(table)).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return ok, nil
}

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
	return s.write(ctx, coll, id, item, "INSERT INTO %s (id, data) VALUES ($1, $2::text::jsonb)")
}

// Save implements repositories.Store
func (s *Store) Save(ctx context.Context, coll, id string, item any) error {
	return s.write(ctx, coll, id, item,
		"INSERT INTO %s (id, data) VALUES ($1, $2::text::jsonb) ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data")
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

	executor := GetExecutor(ctx, s.pool)
	if _, err := executor.Exec(ctx, fmt.Sprintf(statement, ident(table)), id, string(data)); err != nil {
		return mapError(table, id, err)
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

	query := fmt.Sprintf("SELECT id, data::text FROM %s", ident(table))
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY seq"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	executor := GetExecutor(ctx, s.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", table, err)
	}
	defer rows.Close()

	var out []repositories.StoredItem
	for rows.Next() {
		var (
			id   string
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, repositories.JSONItem{ID: id, Data: []byte(data)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
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

	var data string
	query := fmt.Sprintf("SELECT data::text FROM %s WHERE id = $1", ident(table))
	if err := GetExecutor(ctx, s.pool).QueryRow(ctx, query, id).Scan(&data); err != nil {
		return nil, mapError(table, id, err)
	}
	return repositories.JSONItem{ID: id, Data: []byte(data)}, nil
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
	if _, err := s.pool.Exec(ctx, "DROP TABLE IF EXISTS "+ident(table)); err != nil {
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
	// Re-run table setup so the index exists before the next write.
	delete(s.ready, table)
	s.mu.Unlock()

	if err := s.ensureTable(ctx, table); err != nil {
		return err
	}

	s.logger.Debug("unique index ensured", "table", table, "fields", fields)
	return nil
}

// compileFilter turns filter into a WHERE expression with positional
// parameters. Values are bound as JSON text and compared as jsonb.
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
			args = append(args, string(value))
			ands = append(ands, fmt.Sprintf("data->'%s' = $%d::text::jsonb", c.Field, len(args)))
		}
		ors = append(ors, "("+strings.Join(ands, " AND ")+")")
	}
	return strings.Join(ors, " OR "), args, nil
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}
