package errors

import "errors"

var (
	ErrNotFound      = errors.New("schedule not found")
	ErrEntryNotFound = errors.New("schedule entry not found")
)
