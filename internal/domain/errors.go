package domain

import "fmt"

// Business-rule errors are typed so handlers can map them to user-facing
// messages. Anything else coming out of the store is treated as fatal by
// the caller.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

type CapacityError struct {
	Msg string
}

func (e *CapacityError) Error() string { return e.Msg }

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %v not found", e.Entity, e.ID) }

type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Authorizationf(format string, args ...any) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func Capacityf(format string, args ...any) error {
	return &CapacityError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Statef(format string, args ...any) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}
