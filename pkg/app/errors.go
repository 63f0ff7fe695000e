package app

import (
	"errors"
	"fmt"
)

// ErrHydrationTimeout is returned by Hydrate when the initial load does not
// finish within the configured bound. It is the only error meant to reach
// the user.
var ErrHydrationTimeout = errors.New("app: timed out loading data")

// ErrDuplicate is returned when a title already exists on deck or in the
// backlog.
var ErrDuplicate = errors.New("app: duplicate title")

// NotFoundError reports an unknown task or backlog id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("app: %s not found: %s", e.Kind, e.ID)
}

// ErrEmptyTitle is returned when a title is blank after trimming.
var ErrEmptyTitle = errors.New("app: empty title")
