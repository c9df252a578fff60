package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/worktimer/internal/model"
)

// AuthError indicates that authentication has failed or expired.
// It is returned by tracker clients when a 401 response is received.
type AuthError struct {
	Host    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Host, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// User is the account a token authenticates as.
type User struct {
	ID    string
	Login string
	Name  string
}

// Tracker defines the contract the poller needs from an issue tracker.
type Tracker interface {
	// ValidateConnection verifies credentials and connectivity and
	// returns the authenticated user.
	ValidateConnection(ctx context.Context) (*User, error)

	// FetchStates returns the current State and last State change time
	// of every issue matching the configured query.
	FetchStates(ctx context.Context) (*model.Snapshot, error)

	// AddWorkItem logs a work item against an issue.
	AddWorkItem(ctx context.Context, item model.WorkItem) error
}
