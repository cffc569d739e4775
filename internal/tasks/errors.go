package tasks

import "errors"

// Validation failures. Operations returning one of these leave the task
// list untouched.
var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrNotFound        = errors.New("task not found")
	ErrInvalidDay      = errors.New("invalid day")
	ErrInvalidPriority = errors.New("invalid priority")
)
