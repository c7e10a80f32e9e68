package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/orgnest/orgnest/modules/org/services"
)

func TestMapPgError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		require.NoError(t, mapPgError(nil))
	})

	t.Run("non-driver errors pass through", func(t *testing.T) {
		cause := errors.New("connection reset")
		require.Equal(t, cause, mapPgError(cause))
	})

	t.Run("serialization failure is retryable", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "40001"})

		var conflict *services.ConcurrentModificationError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("deadlock is retryable", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "40P01"})

		var conflict *services.ConcurrentModificationError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("duplicate code", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "org_units_code_key"})

		var invalid *services.ValidationError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "code", invalid.Field)
	})

	t.Run("second root", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "org_units_single_root"})

		var structural *services.StructuralError
		require.ErrorAs(t, err, &structural)
	})

	t.Run("wrapped driver errors unwrap", func(t *testing.T) {
		wrapped := fmt.Errorf("insert unit: %w", &pgconn.PgError{Code: "23503"})

		var structural *services.StructuralError
		require.ErrorAs(t, mapPgError(wrapped), &structural)
	})

	t.Run("check violation names the constraint", func(t *testing.T) {
		err := mapPgError(&pgconn.PgError{Code: "23514", ConstraintName: "org_units_bounds"})

		var structural *services.StructuralError
		require.ErrorAs(t, err, &structural)
		require.Contains(t, structural.Message, "org_units_bounds")
	})

	t.Run("unknown codes pass through", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "57014"}
		require.Equal(t, error(cause), mapPgError(cause))
	})
}
