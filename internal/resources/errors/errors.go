package errors

import "errors"

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidID = errors.New("invalid resource ID format")

	ErrDuplicateName = errors.New("resource name already exists")

	// ErrNotApplied means a conditional reservation update matched no
	// document: either the resource is gone or it is no longer available.
	ErrNotApplied = errors.New("conditional resource update did not apply")
)
