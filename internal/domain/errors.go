package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEditWindowClosed  = errors.New("delivery can no longer be modified")
	ErrNotCourier        = errors.New("user is not a courier")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("access denied")
)

// NotFoundError names the missing resource. It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func NotFound(resource string, id int64) error {
	return &NotFoundError{Resource: resource, ID: id}
}
