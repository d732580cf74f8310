// Package store is the persistence layer: users, groups, admin-group
// assignments and the overtime ledger itself.
package store

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the referenced id does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken means the username is already in use.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAlreadyAssigned means the (admin, group) pair already exists.
	ErrAlreadyAssigned = errors.New("admin already assigned to group")
)

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type Store struct {
	db *gorm.DB

	// AllowFutureDates permits overtime records dated after today.
	AllowFutureDates bool
	// Now returns the current time; overridable in tests and configured
	// with the deployment timezone in main.
	Now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, Now: time.Now}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
