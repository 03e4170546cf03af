package input

import (
	"errors"
	"fmt"
)

// Failure reasons reported by backends and the dispatcher
var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrDeviceUnavailable = errors.New("input device unavailable")
)

// Wire codes for failure reasons
const (
	ReasonPermissionDenied  = "permission_denied"
	ReasonInvalidTarget     = "invalid_target"
	ReasonDeviceUnavailable = "device_unavailable"
	ReasonInternal          = "internal"
)

// OpError records the dispatcher operation that failed and why
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// Reason maps an error to its wire code. A nil error has no reason.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return ReasonPermissionDenied
	case errors.Is(err, ErrInvalidTarget):
		return ReasonInvalidTarget
	case errors.Is(err, ErrDeviceUnavailable):
		return ReasonDeviceUnavailable
	default:
		return ReasonInternal
	}
}
