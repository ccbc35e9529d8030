// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrHallNotFound indicates that no hall carries
// the requested name or id, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting a hall
// that still has bookings).
package repository

import (
	"errors"
	"strings"
)

// ErrHallNotFound is returned when a hall lookup by name or id fails.
var ErrHallNotFound = errors.New("hall not found")

// ErrModuleNotFound is returned when no module carries the requested code.
var ErrModuleNotFound = errors.New("module not found")

// ErrUserNotFound is returned when a student or staff id does not exist
// or belongs to a user of another role.
var ErrUserNotFound = errors.New("user not found")

// ErrNoteNotFound is returned when a special note id does not exist.
var ErrNoteNotFound = errors.New("note not found")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrDuplicateName is returned when a hall name is already taken.
var ErrDuplicateName = errors.New("name already exists")

// ErrRegNoExists is returned when a registration number is already taken.
var ErrRegNoExists = errors.New("registration number already exists")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a hall that still has active bookings. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey recognises unique-constraint violations from both the
// MySQL driver (error 1062) and SQLite.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
