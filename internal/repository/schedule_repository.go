// Package repository contains data access logic for the schedule store.
// The store keeps two ledgers of commitments per hall: the timetable
// (recurring lectures and every confirmed booking) and the bookings ledger
// (ad-hoc reservations made through the API).  Reads merge the two and
// drop the duplicate that a booking and its timetable row form.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/iliyamo/hall-booking/internal/database"
	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

// queryer is implemented by both *sql.DB and *sql.Tx so that the same read
// runs inside or outside the booking transaction.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Date and time columns are cast to text so MySQL (DATE/TIME/DATETIME)
// and SQLite (TEXT) scan into the same Go strings.
const timetableSelect = `SELECT t.hall_id, h.name, CAST(t.date AS CHAR), CAST(t.start_time AS CHAR), CAST(t.end_time AS CHAR),
       t.module_id, t.event_id, m.module_code, e.name
FROM timetable t
JOIN halls h ON h.hall_id = t.hall_id
LEFT JOIN modules m ON m.module_id = t.module_id
LEFT JOIN events e ON e.event_id = t.event_id`

const bookingsSelect = `SELECT b.hall_id, h.name, CAST(DATE(b.start_time) AS CHAR), CAST(TIME(b.start_time) AS CHAR), CAST(TIME(b.end_time) AS CHAR),
       b.module_id, b.event_id, m.module_code, e.name
FROM bookings b
JOIN halls h ON h.hall_id = b.hall_id
LEFT JOIN modules m ON m.module_id = b.module_id
LEFT JOIN events e ON e.event_id = b.event_id`

// ScheduleRepo manages persistence for the timetable and the merged read
// view over timetable and bookings.
type ScheduleRepo struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewScheduleRepo constructs a ScheduleRepo.  The dialect decides how the
// hall row is locked inside a booking transaction.
func NewScheduleRepo(db *sql.DB, dialect database.Dialect) *ScheduleRepo {
	return &ScheduleRepo{db: db, dialect: dialect}
}

// FindOverlapping returns every commitment of the hall that intersects rng.
// A commitment overlaps when it starts before the candidate ends and ends
// after the candidate starts, so adjacent slots never clash.  Both ledgers
// are consulted; cancelled bookings are ignored.
func (r *ScheduleRepo) FindOverlapping(ctx context.Context, hallID uint64, rng timerange.Range) ([]model.ConflictEntry, error) {
	return findOverlapping(ctx, r.db, hallID, rng, "")
}

// FindOverlappingTx is FindOverlapping inside the caller's transaction.
// Under MySQL both reads are locking reads, so they see rows committed
// after the transaction started instead of its REPEATABLE READ snapshot.
func (r *ScheduleRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, hallID uint64, rng timerange.Range) ([]model.ConflictEntry, error) {
	return findOverlapping(ctx, tx, hallID, rng, r.dialect.LockClause())
}

func findOverlapping(ctx context.Context, q queryer, hallID uint64, rng timerange.Range, lock string) ([]model.ConflictEntry, error) {
	tt, err := queryEntries(ctx, q,
		timetableSelect+` WHERE t.hall_id = ? AND t.date = ? AND t.start_time < ? AND t.end_time > ?`+lock,
		hallID, rng.DateString(), rng.End.SQL(), rng.Start.SQL())
	if err != nil {
		return nil, fmt.Errorf("timetable overlap: %w", err)
	}
	bk, err := queryEntries(ctx, q,
		bookingsSelect+` WHERE b.hall_id = ? AND b.status = ? AND b.start_time < ? AND b.end_time > ?`+lock,
		hallID, model.BookingStatusBooked, rng.EndDateTime(), rng.StartDateTime())
	if err != nil {
		return nil, fmt.Errorf("bookings overlap: %w", err)
	}
	return mergeEntries(tt, bk), nil
}

// ListForHallAndDate returns the merged schedule of one hall on one date
// ordered by start time.
func (r *ScheduleRepo) ListForHallAndDate(ctx context.Context, hallID uint64, date time.Time) ([]model.ConflictEntry, error) {
	day := date.Format(timerange.DateLayout)
	from, to := dayBounds(date)
	tt, err := queryEntries(ctx, r.db, timetableSelect+` WHERE t.hall_id = ? AND t.date = ?`, hallID, day)
	if err != nil {
		return nil, err
	}
	bk, err := queryEntries(ctx, r.db,
		bookingsSelect+` WHERE b.hall_id = ? AND b.status = ? AND b.start_time >= ? AND b.start_time < ?`,
		hallID, model.BookingStatusBooked, from, to)
	if err != nil {
		return nil, err
	}
	return mergeEntries(tt, bk), nil
}

// ListForDate returns the merged schedule of every hall on one date,
// ordered by start time and then hall name.
func (r *ScheduleRepo) ListForDate(ctx context.Context, date time.Time) ([]model.ConflictEntry, error) {
	day := date.Format(timerange.DateLayout)
	from, to := dayBounds(date)
	tt, err := queryEntries(ctx, r.db, timetableSelect+` WHERE t.date = ?`, day)
	if err != nil {
		return nil, err
	}
	bk, err := queryEntries(ctx, r.db,
		bookingsSelect+` WHERE b.status = ? AND b.start_time >= ? AND b.start_time < ?`,
		model.BookingStatusBooked, from, to)
	if err != nil {
		return nil, err
	}
	return mergeEntries(tt, bk), nil
}

// ListAll returns every timetable row, newest date first.
func (r *ScheduleRepo) ListAll(ctx context.Context) ([]model.ConflictEntry, error) {
	out, err := queryEntries(ctx, r.db, timetableSelect)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].HallName < out[j].HallName
	})
	return out, nil
}

// LockHallTx resolves the hall by exact name and takes its row lock for
// the rest of the transaction, so two bookings of the same hall serialize
// on it.  It must be the first statement of the booking transaction: under
// MySQL an earlier plain read would fix the snapshot before the lock is
// granted.  Under SQLite the immediate transaction already holds the
// database write lock.  Returns ErrHallNotFound when no hall matches.
func (r *ScheduleRepo) LockHallTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT hall_id FROM halls WHERE name = ?`+r.dialect.LockClause(), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrHallNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// CreateTx inserts a timetable row using the provided transaction.  The
// caller must commit or roll back.  On success the generated ID is set.
func (r *ScheduleRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.ScheduleEntry) error {
	if (e.ModuleID == nil) == (e.EventID == nil) {
		return fmt.Errorf("timetable entry needs exactly one of module_id and event_id")
	}
	const q = `INSERT INTO timetable (hall_id, date, start_time, end_time, module_id, event_id) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.HallID, e.Date, e.StartTime, e.EndTime, e.ModuleID, e.EventID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

func queryEntries(ctx context.Context, q queryer, query string, args ...any) ([]model.ConflictEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ConflictEntry
	for rows.Next() {
		var (
			e                   model.ConflictEntry
			moduleID, eventID   sql.NullInt64
			moduleCode, evtName sql.NullString
		)
		if err := rows.Scan(&e.HallID, &e.HallName, &e.Date, &e.StartTime, &e.EndTime,
			&moduleID, &eventID, &moduleCode, &evtName); err != nil {
			return nil, err
		}
		e.Type = model.BookingEvent
		if moduleID.Valid {
			id := uint64(moduleID.Int64)
			e.ModuleID = &id
			e.Type = model.BookingLecture
		}
		if eventID.Valid {
			id := uint64(eventID.Int64)
			e.EventID = &id
		}
		if moduleCode.Valid {
			s := moduleCode.String
			e.ModuleCode = &s
		}
		if evtName.Valid {
			s := evtName.String
			e.EventName = &s
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// mergeEntries unions the timetable and booking rows, keeping one entry
// per commitment, and orders the result by start time.
func mergeEntries(sets ...[]model.ConflictEntry) []model.ConflictEntry {
	seen := make(map[string]bool)
	out := []model.ConflictEntry{}
	for _, set := range sets {
		for _, e := range set {
			k := entryKey(e)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].HallName < out[j].HallName
	})
	return out
}

func entryKey(e model.ConflictEntry) string {
	ref := "-"
	switch {
	case e.ModuleID != nil:
		ref = "m" + strconv.FormatUint(*e.ModuleID, 10)
	case e.EventID != nil:
		ref = "e" + strconv.FormatUint(*e.EventID, 10)
	}
	return fmt.Sprintf("%d|%s|%s|%s|%s", e.HallID, e.Date, e.StartTime, e.EndTime, ref)
}

// dayBounds returns [date 00:00:00, next day 00:00:00) as datetime strings.
func dayBounds(date time.Time) (string, string) {
	const layout = "2006-01-02 15:04:05"
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start.Format(layout), start.AddDate(0, 0, 1).Format(layout)
}
