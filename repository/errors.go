package repository

import (
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"neurocoin/service"
)

// isConnErr reports whether err is a connection-level failure (dial failure,
// dead connection) rather than a statement-level one.
func isConnErr(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// wrapStorageErr tags connection-level failures with ErrStorageUnavailable so
// callers can tell an unreachable store from a statement error and retry with
// backoff. Statement-level errors pass through unchanged.
func wrapStorageErr(err error) error {
	if isConnErr(err) {
		return fmt.Errorf("%w: %v", service.ErrStorageUnavailable, err)
	}
	return err
}
