package engine

import "errors"

var (
	ErrGameOver            = errors.New("game is already over")
	ErrGameNotOver         = errors.New("game is still in progress")
	ErrEmptyInput          = errors.New("input is empty")
	ErrInvalidSilenceLevel = errors.New("invalid silence level")
	ErrUnknownAbility      = errors.New("unknown ability")
	ErrInsufficientBudget  = errors.New("not enough handler budget")
	ErrNotCoOp             = errors.New("session is not in co-op mode")
)

// RetryableError wraps a classifier or narrator failure. The turn was
// aborted before anything was stored, so the player can resubmit.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return e.Op + " unavailable: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
