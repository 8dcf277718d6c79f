package repository

import (
	"errors"

	"github.com/isabella232/azure-intelligent-edge-patterns/internal/db"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDemoPart is returned when a write targets a seeded demo part.
var ErrDemoPart = errors.New("demo parts are read-only")

// ErrDuplicateName is returned when a user part name is already taken.
var ErrDuplicateName = errors.New("part name already exists")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
