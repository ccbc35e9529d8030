package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

// HallResolver maps a hall name to its id.
type HallResolver interface {
	ResolveID(ctx context.Context, name string) (uint64, error)
}

// OverlapFinder lists the commitments of a hall that intersect a range.
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, hallID uint64, rng timerange.Range) ([]model.ConflictEntry, error)
}

// AvailabilityQuery is a candidate slot, in wire formats.
type AvailabilityQuery struct {
	HallName  string
	Date      string
	StartTime string
	EndTime   string
}

// Availability is the outcome of a check.  Clashes is empty when the slot
// is free.
type Availability struct {
	Available bool    `json:"available"`
	Clashes   []Clash `json:"clashes,omitempty"`
}

// AvailabilityChecker answers whether a hall is free for a slot.  It never
// writes; the booking coordinator repeats the overlap check inside its
// transaction, so a positive answer is advisory.
type AvailabilityChecker struct {
	halls    HallResolver
	schedule OverlapFinder
}

// NewAvailabilityChecker panics on nil dependencies.
func NewAvailabilityChecker(halls HallResolver, schedule OverlapFinder) *AvailabilityChecker {
	if halls == nil || schedule == nil {
		panic("nil dependency passed to NewAvailabilityChecker")
	}
	return &AvailabilityChecker{halls: halls, schedule: schedule}
}

// Check resolves the hall, validates the range and looks for overlaps.
// Time and date problems are returned as the timerange sentinels.
func (a *AvailabilityChecker) Check(ctx context.Context, q AvailabilityQuery) (Availability, error) {
	hallID, err := a.halls.ResolveID(ctx, q.HallName)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return Availability{}, ErrHallNotFound
		}
		return Availability{}, fmt.Errorf("resolve hall: %w", err)
	}
	rng, err := timerange.New(q.Date, q.StartTime, q.EndTime)
	if err != nil {
		return Availability{}, err
	}
	entries, err := a.schedule.FindOverlapping(ctx, hallID, rng)
	if err != nil {
		return Availability{}, fmt.Errorf("find overlapping: %w", err)
	}
	if len(entries) == 0 {
		return Availability{Available: true}, nil
	}
	return Availability{Available: false, Clashes: clashesFrom(entries)}, nil
}
