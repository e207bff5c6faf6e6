package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error code for a unique constraint violation.
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation, so
// the store can map a duplicate username insert to its own conflict error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
