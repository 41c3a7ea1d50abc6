// Package eventlog reads lock, unlock, logon and logoff entries from the
// Windows Security event log, or from a JSON-lines export of it.
package eventlog

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/lockwatch/internal/domain"
)

var (
	// ErrAccessDenied means the caller lacks privilege to read the
	// Security log. Reading it requires administrator rights.
	ErrAccessDenied = errors.New("access denied reading the Security event log")

	// ErrSourceUnavailable means the log could not be opened or queried.
	ErrSourceUnavailable = errors.New("security event log unavailable")
)

// Query restricts which events a Reader returns.
type Query struct {
	// User is the account name events must belong to, matched
	// case-insensitively.
	User string

	// Since excludes events older than this instant. The zero value means
	// no lower bound.
	Since time.Time

	// IncludeScreensaver treats screensaver engage/dismiss events as
	// lock/unlock.
	IncludeScreensaver bool
}

// Reader returns the monitored events for one user, ordered by timestamp
// ascending.
type Reader interface {
	Read(ctx context.Context, q Query) ([]domain.Event, error)
}
