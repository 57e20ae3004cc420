package engagement

import (
	"errors"
	"fmt"
)

// ErrAuthRequired means the action needs an authenticated identity.
// Raised before any network call.
var ErrAuthRequired = errors.New("engagement: authentication required")

// ErrPermissionDenied means a local ownership check failed. Raised
// before any network call.
var ErrPermissionDenied = errors.New("engagement: permission denied")

// ValidationError reports malformed input, rejected before any network
// call.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "engagement: " + e.Reason
}

// TransportError wraps a store failure on a mutation. The optimistic
// local change has already been reverted when one of these surfaces;
// it is recoverable and never retried automatically.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("engagement: %s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
