package store

import "errors"

var (
	// ErrNotFound is returned when the referenced movie doesn't exist.
	ErrNotFound = errors.New("marquee: movie not found")

	// ErrConditionFailed is returned when a conditional write lost a race.
	ErrConditionFailed = errors.New("marquee: conditional write failed")

	// ErrUnavailable is returned on transient backend overload. The caller
	// may retry the whole operation with backoff.
	ErrUnavailable = errors.New("marquee: store temporarily unavailable")

	// ErrRejected is returned when the backend rejected the request as
	// malformed. Retrying will not help.
	ErrRejected = errors.New("marquee: store rejected request")
)

// TransactionError reports a multi-item transaction that failed for a reason
// other than the tracked precondition. The whole operation is safe to retry:
// on replay the precondition resolves to "still exists" or "already gone".
type TransactionError struct {
	Cause error
}

func (e *TransactionError) Error() string {
	return "marquee: transaction failed: " + e.Cause.Error()
}

func (e *TransactionError) Unwrap() error {
	return e.Cause
}
