// Package store is the persisted key-value adapter behind every ondeck bucket.
// Values are whole JSON blobs addressed by a stable string key; there are no
// transactions and no partial writes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Stable keys. These are the on-disk names of user data and must never change.
const (
	KeyTasks          = "ondeck.tasks"
	KeyLater          = "ondeck.later"
	KeyRoutine        = "ondeck.routine"
	KeyRoutineResetOn = "ondeck.routine.last-reset"
	KeyArchive        = "ondeck.archive"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract consumed by the bucket managers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Watcher is implemented by stores that can report changes made outside the
// current process.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Closer is implemented by stores holding an open handle.
type Closer interface {
	Close() error
}

// ReadJSON decodes the value stored under key into v. A missing key yields
// ErrNotFound; undecodable data is reported as a *CorruptError.
func ReadJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &CorruptError{Key: key, Err: err}
	}
	return nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// CorruptError reports a stored value that could not be decoded.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("store: malformed value for %s: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
