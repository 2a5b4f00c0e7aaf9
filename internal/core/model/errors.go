package model

import "errors"

var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("entity was not found")

	// ErrEmptyComment is returned when a comment text is empty after trimming.
	ErrEmptyComment = errors.New("comment text is empty")

	// ErrInvalidEmail is returned when an email cannot be parsed.
	ErrInvalidEmail = errors.New("email address is not valid")

	// ErrNotModerator is returned when the acting identity is not the
	// designated moderator of the vacancy a comment belongs to.
	ErrNotModerator = errors.New("identity is not the moderator of this thread")

	// ErrConflict is returned when an insert violates a uniqueness constraint.
	ErrConflict = errors.New("entity already exists")
)
