package services

import "fmt"

// InvalidStateError is returned when a workflow transition is attempted from
// a state that does not allow it.
type InvalidStateError struct {
	Action string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

// ApprovalBlockedError carries the human-readable reason the admin UI shows
// when a verification request cannot be approved yet.
type ApprovalBlockedError struct {
	Reason string
}

func (e *ApprovalBlockedError) Error() string {
	return e.Reason
}

type InsufficientBalanceError struct {
	Available float64
	Requested float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %.2f, requested %.2f", e.Available, e.Requested)
}
