package loadgen

import "errors"

// Sentinel kinds for load run failures.
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnexpectedStatus   = errors.New("unexpected status")
	ErrVerification       = errors.New("verification failed")
	ErrInvalidConfig      = errors.New("invalid loadgen config")
)
