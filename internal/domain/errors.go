package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ForbiddenError means the caller is authenticated but not allowed to touch the resource.
type ForbiddenError struct {
	Msg string
}

func (e ForbiddenError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "forbidden"
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// Reservation errors. Each kind is reported separately so callers can tell a
// business-rule rejection apart from a backend failure worth retrying.

type SelfBookingError struct {
	RideID   ID
	DriverID ID
}

func (e SelfBookingError) Error() string {
	return fmt.Sprintf("ride %d: driver cannot book their own ride", e.RideID)
}

type InvalidRequestError struct {
	Field string
	Msg   string
}

func (e InvalidRequestError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Msg
	}
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Msg)
}

type InsufficientCapacityError struct {
	RideID    ID
	Requested int
	Available int
}

func (e InsufficientCapacityError) Error() string {
	return fmt.Sprintf("ride %d: requested %d seats, %d available", e.RideID, e.Requested, e.Available)
}

// TransportError wraps a failed read/write against the backing store.
type TransportError struct {
	Op  string
	Err error
}

func (e TransportError) Error() string {
	if e.Err == nil {
		return e.Op + ": backend unavailable"
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e TransportError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target ForbiddenError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsSelfBooking(err error) bool {
	var target SelfBookingError
	return errors.As(err, &target)
}

func IsInvalidRequest(err error) bool {
	var target InvalidRequestError
	return errors.As(err, &target)
}

func IsInsufficientCapacity(err error) bool {
	var target InsufficientCapacityError
	return errors.As(err, &target)
}

func IsTransport(err error) bool {
	var target TransportError
	return errors.As(err, &target)
}
