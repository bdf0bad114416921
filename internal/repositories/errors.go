package repositories

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE postgres reports for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// ErrInvalidInput is returned when a user cannot be identified by email or sms.
var ErrInvalidInput = errors.New("Must specify valid email address or sms number.")

// ConflictError reports a uniqueness violation on one of the users columns.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "A user already exists with the given value."
	}
	return fmt.Sprintf("A user already exists with the given %s.", e.Field)
}

var detailKeyPattern = regexp.MustCompile(`Key \(([^)]+)\)=`)

// translateError turns storage-level unique violations into a *ConflictError
// naming the offending column. Any other error is returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	return &ConflictError{Field: conflictField(pgErr)}
}

// conflictField prefers the constraint name (users_<column>_key) and falls
// back to the detail text (Key (<column>)=(...) already exists.).
func conflictField(pgErr *pgconn.PgError) string {
	if name := pgErr.ConstraintName; name != "" {
		field := strings.TrimPrefix(name, usersTable+"_")
		field = strings.TrimSuffix(field, "_key")
		if field != "" && field != name {
			return field
		}
	}
	if m := detailKeyPattern.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1]
	}
	return pgErr.ColumnName
}
