package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/orgnest/orgnest/modules/org/services"
)

// mapPgError translates driver failures into the typed errors the services
// layer returns. Serialization conflicts become retryable
// ConcurrentModificationError; constraint violations become client errors.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return &services.ConcurrentModificationError{Cause: err}
	case "23505": // unique_violation
		switch pgErr.ConstraintName {
		case "org_units_code_key":
			return &services.ValidationError{Field: "code", Reason: "code already exists"}
		case "org_units_single_root":
			return &services.StructuralError{Message: "a national root already exists"}
		default:
			return &services.ValidationError{Reason: "unique constraint violated"}
		}
	case "23503": // foreign_key_violation
		return &services.StructuralError{Message: "referenced row does not exist"}
	case "23514": // check_violation
		return &services.StructuralError{Message: pgErr.ConstraintName + " violated"}
	default:
		return err
	}
}
