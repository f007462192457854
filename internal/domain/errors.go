package domain

import "errors"

var (
	// ErrNotFound is returned when a post or its backing resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrMissingMount is returned when a navigation or content container is absent.
	ErrMissingMount = errors.New("missing mount point")

	// ErrSuperseded is returned by a click whose result was discarded
	// because a newer click on the same page took over the content pane.
	ErrSuperseded = errors.New("superseded by a newer request")
)
