package postgres

import (
	"errors"
	"fmt"

	"codegen/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	return hasPgCode(err, "23503") // foreign_key_violation
}

// IsPgInvalidTextError checks if a parameter could not be parsed for its column type,
// e.g. a malformed uuid
func IsPgInvalidTextError(err error) bool {
	return hasPgCode(err, "22P02") // invalid_text_representation
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// notFoundOr maps missing rows and unparseable ids to domain.ErrNotFound,
// and wraps anything else with op.
func notFoundOr(err error, kind, id, op string) error {
	if IsPgNoRowsError(err) || IsPgInvalidTextError(err) {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
