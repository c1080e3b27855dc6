package postgres

import (
	"errors"
	"fmt"

	"docum/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgUndefinedTableError checks if error reports a missing relation
func IsPgUndefinedTableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 42P01 = undefined_table
		return pgErr.Code == "42P01"
	}
	return false
}

// mapError translates driver errors into domain sentinels.
func mapError(table, id string, err error) error {
	switch {
	case IsPgDuplicateError(err):
		var pgErr *pgconn.PgError
		errors.As(err, &pgErr)
		return fmt.Errorf("%s %s: %s: %w", table, id, pgErr.ConstraintName, domain.ErrConflict)
	case IsPgNoRowsError(err):
		return fmt.Errorf("%s %s: %w", table, id, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w", table, id, err)
	}
}
