package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
)

// Classify turns a driver or gorm error into an *apperr.Error. msg is the
// client-facing message for not-found and conflict cases; op describes the
// operation for logs.
func Classify(err error, op, msg string) error {
	if err == nil {
		return nil
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(err, apperr.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Wrap(err, apperr.CodeConflict, msg)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return apperr.Wrap(err, apperr.CodeConflict, msg)
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return apperr.Wrap(err, apperr.CodeNotFound, "referenced record not found")
		case pgErr.Code == pgerrcode.CheckViolation, pgErr.Code == pgerrcode.NotNullViolation:
			return apperr.Wrap(err, apperr.CodeInvalidArgument, "value violates a data constraint")
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code):
			return apperr.Wrap(err, apperr.CodeUnavailable, "")
		}
		return apperr.Wrap(err, apperr.CodeInternal, op)
	}

	if errors.Is(err, context.Canceled) {
		return apperr.Wrap(err, apperr.CodeCanceled, "")
	}
	if isUnavailable(err) {
		return apperr.Wrap(err, apperr.CodeUnavailable, "")
	}

	return apperr.Wrap(err, apperr.CodeInternal, op)
}

// isUnavailable covers the failures a caller may retry: an unreachable
// server, a dead connection or a request deadline spent waiting on the pool.
func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgerrcode.IsIntegrityConstraintViolation(pgErr.Code)
}
