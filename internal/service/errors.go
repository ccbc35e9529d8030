// Package service holds the booking core: the availability checker, the
// booking transaction coordinator and the timetable view builder.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
)

var (
	// ErrHallNotFound is returned when no hall carries the requested name.
	ErrHallNotFound = repository.ErrHallNotFound
	// ErrInvalidModuleCode is returned for a lecture whose module is unknown.
	ErrInvalidModuleCode = errors.New("invalid module code")
	// ErrInvalidEventName is returned for an event booking without a name.
	ErrInvalidEventName = errors.New("event name is required")
	// ErrInvalidBookingType is returned when the booking type is neither
	// Lecture nor Event.
	ErrInvalidBookingType = errors.New("invalid booking type")
	// ErrMissingIdentity is returned when a booking carries no owner.
	ErrMissingIdentity = errors.New("caller identity is required")
	// ErrBookingFailed wraps storage failures of the booking transaction.
	ErrBookingFailed = errors.New("booking failed")
	// ErrConflict is matched by *ConflictError.
	ErrConflict = errors.New("time slot is already taken")
)

// Clash is a commitment that overlaps a requested slot, in the shape
// clients receive it.
type Clash struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
	Name      string `json:"name"`
}

func clashesFrom(entries []model.ConflictEntry) []Clash {
	out := make([]Clash, 0, len(entries))
	for _, e := range entries {
		out = append(out, Clash{
			Date:      e.Date,
			StartTime: e.StartTime,
			EndTime:   e.EndTime,
			Type:      string(e.Type),
			Name:      e.Name(),
		})
	}
	return out
}

// ConflictError reports the commitments a booking collided with inside
// the booking transaction.
type ConflictError struct {
	Clashes []Clash
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %d clashing commitment(s)", ErrConflict, len(e.Clashes))
}

// Is lets errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
