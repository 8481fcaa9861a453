package postgres

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"edumaster/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes the service reacts to.
const (
	sqlStateUniqueViolation = "23505"
	sqlStateQueryCanceled   = "57014"
)

// MapError converts driver errors into AppErrors:
// unique violations become DUPLICATE_ENTRY, connectivity failures and
// timeouts become STORE_UNAVAILABLE. Other errors are returned unchanged.
func MapError(err error, entity, field, value string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.AsAppError(err); ok {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == sqlStateUniqueViolation:
			return apperror.NewDuplicate(entity, field, value).WithCause(err)
		case pgErr.Code == sqlStateQueryCanceled:
			return apperror.NewStoreUnavailable(err)
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return apperror.NewStoreUnavailable(err)
		}
		return err
	}

	if IsUnavailable(err) {
		return apperror.NewStoreUnavailable(err)
	}
	return err
}

// IsUnavailable reports whether err means the database could not be reached in time.
func IsUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
