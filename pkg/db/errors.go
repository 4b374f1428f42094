package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper also
// requires the constraint text to appear in the error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		if constraintName == "" {
			return true
		}
		return pgErr.ConstraintName == constraintName
	}

	// SQLite (and generic drivers) only expose the message text.
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(msg, constraintName) ||
		sqliteConstraintMatches(msg, constraintName)
}

// sqliteConstraintMatches maps an index name such as uq_products_sku onto
// SQLite's "UNIQUE constraint failed: products.sku" wording, which never
// includes the index name itself. Every name segment past the uq_ prefix
// must appear in the message.
func sqliteConstraintMatches(msg, constraintName string) bool {
	name := strings.TrimPrefix(constraintName, "uq_")
	if name == constraintName {
		return false
	}
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		if !strings.Contains(msg, part) {
			return false
		}
	}
	return true
}
