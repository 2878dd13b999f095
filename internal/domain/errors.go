package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrNotFound       = errors.New("not found")
	ErrNoRowsAffected = errors.New("no rows affected")
)

// DuplicateEntryError carries the unique key a write collided with.
type DuplicateEntryError struct {
	Key string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry for key %q", e.Key)
}

func (e *DuplicateEntryError) Is(target error) bool {
	return target == ErrDuplicateEntry
}
