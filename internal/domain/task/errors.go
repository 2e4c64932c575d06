package task

import "errors"

var (
	ErrNotFound        = errors.New("task not found")
	ErrForbidden       = errors.New("not authorized for this task")
	ErrInvalidEmployee = errors.New("invalid employee")
)
