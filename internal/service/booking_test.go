package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/database"
	"github.com/iliyamo/hall-booking/internal/queue"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/testfixtures"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

type fixture struct {
	db          *sql.DB
	hall        uint64
	module      uint64
	owner       uint64
	checker     *AvailabilityChecker
	coordinator *BookingCoordinator
	schedule    *repository.ScheduleRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testfixtures.OpenSQLite(t)
	halls := repository.NewHallRepo(db)
	schedule := repository.NewScheduleRepo(db, database.SQLite)
	f := &fixture{
		db:       db,
		hall:     testfixtures.SeedHall(t, db, "Lab A"),
		module:   testfixtures.SeedModule(t, db, "EE2201"),
		owner:    testfixtures.SeedUser(t, db, "ST/1", "STAFF"),
		checker:  NewAvailabilityChecker(halls, schedule),
		schedule: schedule,
		coordinator: NewBookingCoordinator(db, schedule, repository.NewBookingRepo(db),
			repository.NewModuleRepo(db), repository.NewEventRepo(db)),
	}
	return f
}

func (f *fixture) lecture(date, start, end string) BookingRequest {
	return BookingRequest{HallName: "Lab A", Date: date, StartTime: start, EndTime: end,
		OwnerID: f.owner, Commitment: Lecture{ModuleCode: "EE2201"}}
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func TestCreateBooking_LectureRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	receipt, err := f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "10:00", "11:00"))
	require.NoError(t, err)
	assert.NotZero(t, receipt.BookingID)
	assert.NotZero(t, receipt.TimetableID)
	require.NotNil(t, receipt.ModuleID)
	assert.Equal(t, f.module, *receipt.ModuleID)
	assert.Nil(t, receipt.EventID)

	assert.Equal(t, 1, testfixtures.Count(t, f.db, "timetable"))
	assert.Equal(t, 1, testfixtures.Count(t, f.db, "bookings"))
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "events"))

	// the merged view shows the pair once
	entries, err := f.schedule.ListForHallAndDate(ctx, f.hall, mustDate(t, "2024-06-01"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "EE2201", entries[0].Name())

	a, err := f.checker.Check(ctx, AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "10:30", EndTime: "11:30"})
	require.NoError(t, err)
	assert.False(t, a.Available)
}

func TestCreateBooking_UnknownModuleWritesNothing(t *testing.T) {
	f := newFixture(t)
	req := f.lecture("2024-06-01", "10:00", "11:00")
	req.Commitment = Lecture{ModuleCode: "ZZ9999"}

	_, err := f.coordinator.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidModuleCode)
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "timetable"))
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "bookings"))
	assert.Equal(t, 1, testfixtures.Count(t, f.db, "modules"), "lecture bookings never create modules")
}

func TestCreateBooking_Event(t *testing.T) {
	f := newFixture(t)
	req := BookingRequest{HallName: "Lab A", Date: "2024-06-01", StartTime: "14:00", EndTime: "15:30", OwnerID: f.owner,
		Commitment: Event{Name: "Tech Talk", TargetBatch: "E21", Department: "EEE"}}

	receipt, err := f.coordinator.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, receipt.EventID)
	assert.Nil(t, receipt.ModuleID)

	ev, err := repository.NewEventRepo(f.db).GetByID(context.Background(), *receipt.EventID)
	require.NoError(t, err)
	assert.Equal(t, "Tech Talk", ev.Name)
	assert.Equal(t, "E21 EEE", ev.TargetGroup)
	assert.Equal(t, f.owner, ev.LecturerInchargeID)
	assert.Nil(t, ev.Society)
}

func TestCreateBooking_EventTargetGroupTrimmed(t *testing.T) {
	f := newFixture(t)
	req := BookingRequest{HallName: "Lab A", Date: "2024-06-01", StartTime: "14:00", EndTime: "15:00", OwnerID: f.owner,
		Commitment: Event{Name: "Open Day", Department: "EEE"}}

	receipt, err := f.coordinator.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	ev, err := repository.NewEventRepo(f.db).GetByID(context.Background(), *receipt.EventID)
	require.NoError(t, err)
	assert.Equal(t, "EEE", ev.TargetGroup)
}

func TestCreateBooking_ConflictAfterCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.checker.Check(ctx, AvailabilityQuery{HallName: "Lab A", Date: "2024-06-01", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)
	require.True(t, a.Available)

	// someone else takes the slot between the check and the booking
	testfixtures.SeedLecture(t, f.db, f.hall, f.module, "2024-06-01", "09:30:00", "10:30:00")

	_, err = f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "09:00", "10:00"))
	require.ErrorIs(t, err, ErrConflict)
	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Clashes, 1)
	assert.Equal(t, Clash{Date: "2024-06-01", StartTime: "09:30:00", EndTime: "10:30:00", Type: "Lecture", Name: "EE2201"}, ce.Clashes[0])
	assert.Equal(t, 1, testfixtures.Count(t, f.db, "timetable"))
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "bookings"))
}

func TestCreateBooking_SecondIdenticalBookingConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "10:00", "11:00"))
	require.NoError(t, err)
	_, err = f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "10:00", "11:00"))
	assert.ErrorIs(t, err, ErrConflict)

	// adjacent slot is fine
	_, err = f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "11:00", "12:00"))
	assert.NoError(t, err)
	assert.Equal(t, 2, testfixtures.Count(t, f.db, "bookings"))
}

func TestCreateBooking_ConcurrentOverlapOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reqs := []BookingRequest{
		f.lecture("2024-06-01", "10:00", "11:00"),
		f.lecture("2024-06-01", "10:30", "11:30"),
	}
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req BookingRequest) {
			defer wg.Done()
			_, errs[i] = f.coordinator.CreateBooking(ctx, req)
		}(i, req)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, testfixtures.Count(t, f.db, "bookings"))
	assert.Equal(t, 1, testfixtures.Count(t, f.db, "timetable"))
}

func TestCreateBooking_ValidationBeforeStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.lecture("2024-06-01", "10:00", "11:00")
	req.OwnerID = 0
	_, err := f.coordinator.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrMissingIdentity)

	req = f.lecture("2024-06-01", "10:00", "11:00")
	req.Commitment = nil
	_, err = f.coordinator.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidBookingType)

	_, err = f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "11:00", "10:00"))
	assert.ErrorIs(t, err, timerange.ErrInvalidTimeRange)

	_, err = f.coordinator.CreateBooking(ctx, f.lecture("2024-06-01", "10:15", "11:00"))
	assert.ErrorIs(t, err, timerange.ErrInvalidTimeGranularity)

	req = f.lecture("2024-06-01", "10:00", "11:00")
	req.HallName = "lab a"
	_, err = f.coordinator.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrHallNotFound)

	req = f.lecture("2024-06-01", "10:00", "11:00")
	req.Commitment = Event{}
	_, err = f.coordinator.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidEventName)

	assert.Equal(t, 0, testfixtures.Count(t, f.db, "bookings"))
}

func TestCreateBooking_FailureRollsBackEvent(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Exec(`CREATE TRIGGER reject_bookings BEFORE INSERT ON bookings BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	req := BookingRequest{HallName: "Lab A", Date: "2024-06-01", StartTime: "14:00", EndTime: "15:00", OwnerID: f.owner,
		Commitment: Event{Name: "Tech Talk"}}
	_, err = f.coordinator.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingFailed)
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "events"))
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "timetable"))
	assert.Equal(t, 0, testfixtures.Count(t, f.db, "bookings"))
}

func TestCreateBooking_PublishesAfterCommit(t *testing.T) {
	f := newFixture(t)
	pub := &publisherMock{}
	pub.On("PublishBookingCreated", mock.Anything, mock.MatchedBy(func(ev queue.BookingCreatedEvent) bool {
		return ev.HallName == "Lab A" && ev.ModuleCode != nil && *ev.ModuleCode == "EE2201" &&
			ev.StartTime == "10:00" && ev.EndTime == "11:00" && ev.BookingID != 0
	})).Return(errors.New("broker down")).Once()
	f.coordinator.WithPublisher(pub)

	_, err := f.coordinator.CreateBooking(context.Background(), f.lecture("2024-06-01", "10:00", "11:00"))
	require.NoError(t, err, "publish failures never fail a committed booking")
	pub.AssertExpectations(t)

	// a conflict publishes nothing
	_, err = f.coordinator.CreateBooking(context.Background(), f.lecture("2024-06-01", "10:00", "11:00"))
	assert.ErrorIs(t, err, ErrConflict)
	pub.AssertNumberOfCalls(t, "PublishBookingCreated", 1)
}

func TestParseCommitment(t *testing.T) {
	c, err := ParseCommitment("Lecture", "EE2201", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, Lecture{ModuleCode: "EE2201"}, c)

	c, err = ParseCommitment("Event", "", "Tech Talk", "E21", "EEE")
	require.NoError(t, err)
	assert.Equal(t, Event{Name: "Tech Talk", TargetBatch: "E21", Department: "EEE"}, c)

	_, err = ParseCommitment("lecture", "EE2201", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidBookingType)
	_, err = ParseCommitment("", "", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidBookingType)
}
