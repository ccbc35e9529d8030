package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/queue"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

// Commitment is what a booking reserves the hall for.  The set of
// implementations is closed: Lecture and Event.
type Commitment interface {
	bookingType() model.BookingType
}

// Lecture books the hall for an existing module.  Bookings never create
// modules.
type Lecture struct {
	ModuleCode string
}

// Event books the hall for a new event owned by the caller.
type Event struct {
	Name        string
	TargetBatch string
	Department  string
}

func (Lecture) bookingType() model.BookingType { return model.BookingLecture }
func (Event) bookingType() model.BookingType   { return model.BookingEvent }

// ParseCommitment builds a commitment from the request fields.  The
// booking type must be exactly "Lecture" or "Event".
func ParseCommitment(bookingType, moduleCode, eventName, targetBatch, department string) (Commitment, error) {
	switch model.BookingType(bookingType) {
	case model.BookingLecture:
		return Lecture{ModuleCode: moduleCode}, nil
	case model.BookingEvent:
		return Event{Name: eventName, TargetBatch: targetBatch, Department: department}, nil
	}
	return nil, ErrInvalidBookingType
}

// BookingRequest asks for one hall, one date and one slot.  OwnerID is the
// authenticated caller.
type BookingRequest struct {
	HallName   string
	Date       string
	StartTime  string
	EndTime    string
	OwnerID    uint64
	Commitment Commitment
}

// Receipt identifies the rows written by a successful booking.  Exactly
// one of ModuleID and EventID is set.
type Receipt struct {
	BookingID   uint64  `json:"booking_id"`
	TimetableID uint64  `json:"timetable_id"`
	HallID      uint64  `json:"hall_id"`
	ModuleID    *uint64 `json:"module_id,omitempty"`
	EventID     *uint64 `json:"event_id,omitempty"`
}

// EventPublisher receives a notification after a booking commits.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// BookingCoordinator writes a booking and its timetable row in one
// transaction.  The hall row is locked and the overlap check is repeated
// inside the transaction, so two callers racing for the same slot cannot
// both commit.
type BookingCoordinator struct {
	db        *sql.DB
	schedule  *repository.ScheduleRepo
	bookings  *repository.BookingRepo
	modules   *repository.ModuleRepo
	events    *repository.EventRepo
	publisher EventPublisher
	now       func() time.Time
}

// NewBookingCoordinator panics on nil dependencies.  The publisher is
// optional and set with WithPublisher.
func NewBookingCoordinator(db *sql.DB, schedule *repository.ScheduleRepo, bookings *repository.BookingRepo,
	modules *repository.ModuleRepo, events *repository.EventRepo) *BookingCoordinator {
	if db == nil || schedule == nil || bookings == nil || modules == nil || events == nil {
		panic("nil dependency passed to NewBookingCoordinator")
	}
	return &BookingCoordinator{
		db: db, schedule: schedule, bookings: bookings,
		modules: modules, events: events, now: time.Now,
	}
}

// WithPublisher sets the publisher notified after each commit.
func (c *BookingCoordinator) WithPublisher(p EventPublisher) *BookingCoordinator {
	c.publisher = p
	return c
}

// CreateBooking validates the request, then runs the booking transaction.
// Errors:
//   - ErrMissingIdentity, ErrInvalidBookingType and the timerange
//     sentinels before any storage access;
//   - ErrHallNotFound, ErrInvalidModuleCode, ErrInvalidEventName;
//   - *ConflictError when the slot overlaps an existing commitment;
//   - ErrBookingFailed wrapping any storage failure.
//
// Nothing is written unless the call succeeds.
func (c *BookingCoordinator) CreateBooking(ctx context.Context, req BookingRequest) (Receipt, error) {
	if req.OwnerID == 0 {
		return Receipt{}, ErrMissingIdentity
	}
	if req.Commitment == nil {
		return Receipt{}, ErrInvalidBookingType
	}
	rng, err := timerange.New(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return Receipt{}, err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: begin: %w", ErrBookingFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// The lock is the first statement so the re-check below cannot read a
	// snapshot taken before a competing booking committed.
	hallID, err := c.schedule.LockHallTx(ctx, tx, req.HallName)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return Receipt{}, ErrHallNotFound
		}
		return Receipt{}, fmt.Errorf("%w: lock hall: %w", ErrBookingFailed, err)
	}
	clashes, err := c.schedule.FindOverlappingTx(ctx, tx, hallID, rng)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: overlap check: %w", ErrBookingFailed, err)
	}
	if len(clashes) > 0 {
		return Receipt{}, &ConflictError{Clashes: clashesFrom(clashes)}
	}

	entry := model.ScheduleEntry{
		HallID:    hallID,
		Date:      rng.DateString(),
		StartTime: rng.Start.SQL(),
		EndTime:   rng.End.SQL(),
	}
	booking := model.BookingEntry{
		HallID:      hallID,
		UserID:      req.OwnerID,
		BookingType: req.Commitment.bookingType(),
		StartTime:   rng.StartDateTime(),
		EndTime:     rng.EndDateTime(),
	}
	ev := queue.BookingCreatedEvent{
		UserID:      req.OwnerID,
		HallID:      hallID,
		HallName:    req.HallName,
		BookingType: string(booking.BookingType),
		Date:        rng.DateString(),
		StartTime:   rng.Start.String(),
		EndTime:     rng.End.String(),
	}

	switch cm := req.Commitment.(type) {
	case Lecture:
		code := strings.TrimSpace(cm.ModuleCode)
		if code == "" {
			return Receipt{}, ErrInvalidModuleCode
		}
		moduleID, err := c.modules.FindIDByCodeTx(ctx, tx, code)
		if err != nil {
			if errors.Is(err, repository.ErrModuleNotFound) {
				return Receipt{}, ErrInvalidModuleCode
			}
			return Receipt{}, fmt.Errorf("%w: resolve module: %w", ErrBookingFailed, err)
		}
		entry.ModuleID = &moduleID
		booking.ModuleID = &moduleID
		ev.ModuleCode = &code
	case Event:
		name := strings.TrimSpace(cm.Name)
		if name == "" {
			return Receipt{}, ErrInvalidEventName
		}
		e := model.Event{
			Name:               name,
			TargetGroup:        strings.TrimSpace(cm.TargetBatch + " " + cm.Department),
			LecturerInchargeID: req.OwnerID,
		}
		if err := c.events.CreateTx(ctx, tx, &e); err != nil {
			return Receipt{}, fmt.Errorf("%w: create event: %w", ErrBookingFailed, err)
		}
		entry.EventID = &e.ID
		booking.EventID = &e.ID
		ev.EventName = &name
	default:
		return Receipt{}, ErrInvalidBookingType
	}

	if err := c.schedule.CreateTx(ctx, tx, &entry); err != nil {
		return Receipt{}, fmt.Errorf("%w: insert timetable: %w", ErrBookingFailed, err)
	}
	if err := c.bookings.CreateTx(ctx, tx, &booking); err != nil {
		return Receipt{}, fmt.Errorf("%w: insert booking: %w", ErrBookingFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return Receipt{}, fmt.Errorf("%w: commit: %w", ErrBookingFailed, err)
	}
	committed = true

	receipt := Receipt{
		BookingID:   booking.ID,
		TimetableID: entry.ID,
		HallID:      hallID,
		ModuleID:    entry.ModuleID,
		EventID:     entry.EventID,
	}
	ev.BookingID = receipt.BookingID
	ev.TimetableID = receipt.TimetableID
	ev.CreatedAt = c.now().UTC().Format(time.RFC3339)
	c.publish(ctx, ev)
	return receipt, nil
}

// publish notifies the publisher; the booking is already committed, so
// failures are only logged.
func (c *BookingCoordinator) publish(ctx context.Context, ev queue.BookingCreatedEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.PublishBookingCreated(ctx, ev); err != nil {
		log.Warnf("booking %d committed but event publish failed: %v", ev.BookingID, err)
	}
}
