package entity

import "errors"

// Order operation errors surfaced to the API layer
var (
	// ErrOrderNotFound is returned when no order exists with the given id
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPending is returned when a transition is attempted on an
	// order that has already reached a terminal state
	ErrOrderNotPending = errors.New("order is not in PENDING state")
)
