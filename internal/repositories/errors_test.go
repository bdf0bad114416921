package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedField  string
		expectConflict bool
	}{
		{
			name:           "Constraint name for email",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"},
			expectedField:  "email",
			expectConflict: true,
		},
		{
			name:           "Constraint name for username",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"},
			expectedField:  "username",
			expectConflict: true,
		},
		{
			name:           "Custom constraint name falls back to detail",
			err:            &pgconn.PgError{Code: "23505", ConstraintName: "uniq_sms", Detail: "Key (sms)=(5551234) already exists."},
			expectedField:  "sms",
			expectConflict: true,
		},
		{
			name:           "Detail only",
			err:            &pgconn.PgError{Code: "23505", Detail: "Key (uuid)=(abc) already exists."},
			expectedField:  "uuid",
			expectConflict: true,
		},
		{
			name:           "Wrapped unique violation",
			err:            fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_sms_key"}),
			expectedField:  "sms",
			expectConflict: true,
		},
		{
			name: "Other postgres error",
			err:  &pgconn.PgError{Code: "23502", ConstraintName: "users_email_key"},
		},
		{
			name: "Plain error",
			err:  errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := translateError(tt.err)

			var conflict *ConflictError
			if !tt.expectConflict {
				assert.False(t, errors.As(result, &conflict))
				assert.Equal(t, tt.err, result)
				return
			}
			require.ErrorAs(t, result, &conflict)
			assert.Equal(t, tt.expectedField, conflict.Field)
			assert.Equal(t, "A user already exists with the given "+tt.expectedField+".", result.Error())
		})
	}
}

func TestConflictError_NoField(t *testing.T) {
	err := &ConflictError{}
	assert.Equal(t, "A user already exists with the given value.", err.Error())
}
