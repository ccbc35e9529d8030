package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/database"
	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/testfixtures"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

func rng(t *testing.T, date, start, end string) timerange.Range {
	t.Helper()
	r, err := timerange.New(date, start, end)
	require.NoError(t, err)
	return r
}

// insertPair writes a timetable row and its booking row the way the
// booking transaction does.
func insertPair(t *testing.T, db *sql.DB, hallID, userID uint64, moduleID, eventID *uint64, r timerange.Range, status string) {
	t.Helper()
	ctx := context.Background()
	schedule := NewScheduleRepo(db, database.SQLite)
	bookings := NewBookingRepo(db)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	kind := model.BookingLecture
	if eventID != nil {
		kind = model.BookingEvent
	}
	require.NoError(t, schedule.CreateTx(ctx, tx, &model.ScheduleEntry{
		HallID: hallID, Date: r.DateString(), StartTime: r.Start.SQL(), EndTime: r.End.SQL(),
		ModuleID: moduleID, EventID: eventID,
	}))
	require.NoError(t, bookings.CreateTx(ctx, tx, &model.BookingEntry{
		HallID: hallID, UserID: userID, BookingType: kind,
		StartTime: r.StartDateTime(), EndTime: r.EndDateTime(),
		ModuleID: moduleID, EventID: eventID, Status: status,
	}))
	require.NoError(t, tx.Commit())
}

func TestScheduleRepo_FindOverlapping(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")
	mod := testfixtures.SeedModule(t, db, "EE2201")
	testfixtures.SeedLecture(t, db, hall, mod, "2024-06-01", "09:00:00", "10:00:00")

	repo := NewScheduleRepo(db, database.SQLite)

	clashes, err := repo.FindOverlapping(ctx, hall, rng(t, "2024-06-01", "09:30", "10:30"))
	require.NoError(t, err)
	require.Len(t, clashes, 1)
	assert.Equal(t, model.BookingLecture, clashes[0].Type)
	assert.Equal(t, "EE2201", clashes[0].Name())
	assert.Equal(t, "2024-06-01", clashes[0].Date)
	assert.Equal(t, "09:00:00", clashes[0].StartTime)
	assert.Equal(t, "10:00:00", clashes[0].EndTime)
	assert.Equal(t, "Lab A", clashes[0].HallName)

	// adjacent slots do not clash
	clashes, err = repo.FindOverlapping(ctx, hall, rng(t, "2024-06-01", "10:00", "11:00"))
	require.NoError(t, err)
	assert.Empty(t, clashes)

	// another date does not clash
	clashes, err = repo.FindOverlapping(ctx, hall, rng(t, "2024-06-02", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Empty(t, clashes)
}

func TestScheduleRepo_ContainmentAndBookingsLedger(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")
	user := testfixtures.SeedUser(t, db, "S001", model.RoleStaff)
	mod := testfixtures.SeedModule(t, db, "EE2201")

	// booking only, without a timetable row
	bookings := NewBookingRepo(db)
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, bookings.CreateTx(ctx, tx, &model.BookingEntry{
		HallID: hall, UserID: user, BookingType: model.BookingLecture,
		StartTime: "2024-06-01 09:00:00", EndTime: "2024-06-01 12:00:00", ModuleID: &mod,
	}))
	require.NoError(t, tx.Commit())

	repo := NewScheduleRepo(db, database.SQLite)
	clashes, err := repo.FindOverlapping(ctx, hall, rng(t, "2024-06-01", "10:00", "10:30"))
	require.NoError(t, err)
	require.Len(t, clashes, 1)
	assert.Equal(t, "09:00:00", clashes[0].StartTime)
	assert.Equal(t, "12:00:00", clashes[0].EndTime)
}

func TestScheduleRepo_CancelledBookingIgnored(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")
	user := testfixtures.SeedUser(t, db, "S001", model.RoleStaff)
	mod := testfixtures.SeedModule(t, db, "EE2201")

	bookings := NewBookingRepo(db)
	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, bookings.CreateTx(ctx, tx, &model.BookingEntry{
		HallID: hall, UserID: user, BookingType: model.BookingLecture,
		StartTime: "2024-06-01 09:00:00", EndTime: "2024-06-01 10:00:00", ModuleID: &mod, Status: "Cancelled",
	}))
	require.NoError(t, tx.Commit())

	clashes, err := NewScheduleRepo(db, database.SQLite).FindOverlapping(ctx, hall, rng(t, "2024-06-01", "09:00", "10:00"))
	require.NoError(t, err)
	assert.Empty(t, clashes)
}

func TestScheduleRepo_ListForHallAndDate_Dedup(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")
	user := testfixtures.SeedUser(t, db, "S001", model.RoleStaff)
	mod := testfixtures.SeedModule(t, db, "EE2201")

	insertPair(t, db, hall, user, &mod, nil, rng(t, "2024-06-01", "13:00", "14:00"), "")
	testfixtures.SeedLecture(t, db, hall, mod, "2024-06-01", "09:00:00", "10:00:00")
	testfixtures.SeedLecture(t, db, hall, mod, "2024-06-02", "09:00:00", "10:00:00")

	repo := NewScheduleRepo(db, database.SQLite)
	date, err := timerange.ParseDate("2024-06-01")
	require.NoError(t, err)
	entries, err := repo.ListForHallAndDate(ctx, hall, date)
	require.NoError(t, err)

	require.Len(t, entries, 2, "the timetable row and booking row of one commitment count once")
	assert.Equal(t, "09:00:00", entries[0].StartTime)
	assert.Equal(t, "13:00:00", entries[1].StartTime)
}

func TestScheduleRepo_ListForDate(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	labA := testfixtures.SeedHall(t, db, "Lab A")
	labB := testfixtures.SeedHall(t, db, "Lab B")
	mod := testfixtures.SeedModule(t, db, "EE2201")
	testfixtures.SeedLecture(t, db, labB, mod, "2024-06-01", "09:00:00", "10:00:00")
	testfixtures.SeedLecture(t, db, labA, mod, "2024-06-01", "09:00:00", "10:00:00")
	testfixtures.SeedLecture(t, db, labA, mod, "2024-06-01", "08:00:00", "09:00:00")

	repo := NewScheduleRepo(db, database.SQLite)
	date, err := timerange.ParseDate("2024-06-01")
	require.NoError(t, err)
	entries, err := repo.ListForDate(ctx, date)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Lab A", entries[0].HallName)
	assert.Equal(t, "08:00:00", entries[0].StartTime)
	assert.Equal(t, "Lab A", entries[1].HallName)
	assert.Equal(t, "Lab B", entries[2].HallName)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestScheduleRepo_CreateTxRequiresOneReference(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	err = NewScheduleRepo(db, database.SQLite).CreateTx(ctx, tx, &model.ScheduleEntry{
		HallID: hall, Date: "2024-06-01", StartTime: "09:00:00", EndTime: "10:00:00",
	})
	assert.Error(t, err)
}

func TestScheduleRepo_LockHallTx(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	ctx := context.Background()
	hall := testfixtures.SeedHall(t, db, "Lab A")
	repo := NewScheduleRepo(db, database.SQLite)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	id, err := repo.LockHallTx(ctx, tx, "Lab A")
	require.NoError(t, err)
	assert.Equal(t, hall, id)

	_, err = repo.LockHallTx(ctx, tx, "lab a")
	assert.ErrorIs(t, err, ErrHallNotFound, "hall names match exactly")
}
