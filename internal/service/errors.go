package service

import "errors"

var (
	// ErrInvalidDates is wrapped by every schedule validation failure.
	ErrInvalidDates = errors.New("invalid dates")
	// ErrInvalidParent is returned when a parent link is not usable.
	ErrInvalidParent = errors.New("invalid parent")
)
