package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/finhealth/savings_app/internal/apperrors"
)

// PostgreSQL error codes this package reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// classifyPgError converts driver-level failures into the application error
// taxonomy. Lock conflicts become ErrContention so the service layer can
// retry; lost connections become ErrStorageUnavailable so callers know the
// unit was rolled back with nothing applied.
func classifyPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %v", apperrors.ErrContention, err)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", apperrors.ErrDuplicate, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return err
}
