package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/hall-booking/internal/model"
)

// BookingRepo persists the bookings ledger.  Rows are written only inside
// the booking transaction, next to their timetable row.  All datetime
// values are "YYYY-MM-DD HH:MM:SS" strings in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// CreateTx inserts a booking within the scope of an existing transaction
// and populates the generated ID.  Status defaults to Booked when empty.
// The caller must commit or rollback the transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.BookingEntry) error {
	if (b.ModuleID == nil) == (b.EventID == nil) {
		return fmt.Errorf("booking needs exactly one of module_id and event_id")
	}
	if b.Status == "" {
		b.Status = model.BookingStatusBooked
	}
	const q = `INSERT INTO bookings (hall_id, user_id, booking_type, start_time, end_time, module_id, event_id, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.HallID, b.UserID, string(b.BookingType), b.StartTime, b.EndTime, b.ModuleID, b.EventID, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

const bookingViewSelect = `SELECT b.booking_id, b.hall_id, b.user_id, b.booking_type,
       CAST(b.start_time AS CHAR), CAST(b.end_time AS CHAR),
       b.module_id, b.event_id, b.status, h.name, m.module_code, e.name
FROM bookings b
JOIN halls h ON h.hall_id = b.hall_id
LEFT JOIN modules m ON m.module_id = b.module_id
LEFT JOIN events e ON e.event_id = b.event_id`

// ListByHall returns every booking of a hall ordered by start time.
func (r *BookingRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.BookingView, error) {
	return r.list(ctx, bookingViewSelect+` WHERE b.hall_id = ? ORDER BY b.start_time ASC, b.booking_id ASC`, hallID)
}

// ListByUser returns the bookings owned by a user, newest slot first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	return r.list(ctx, bookingViewSelect+` WHERE b.user_id = ? ORDER BY b.start_time DESC, b.booking_id DESC`, userID)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.BookingView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingView{}
	for rows.Next() {
		var (
			v                   model.BookingView
			bookingType         string
			moduleID, eventID   sql.NullInt64
			moduleCode, evtName sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.HallID, &v.UserID, &bookingType, &v.StartTime, &v.EndTime,
			&moduleID, &eventID, &v.Status, &v.HallName, &moduleCode, &evtName); err != nil {
			return nil, err
		}
		v.BookingType = model.BookingType(bookingType)
		if moduleID.Valid {
			id := uint64(moduleID.Int64)
			v.ModuleID = &id
		}
		if eventID.Valid {
			id := uint64(eventID.Int64)
			v.EventID = &id
		}
		if moduleCode.Valid {
			s := moduleCode.String
			v.ModuleCode = &s
		}
		if evtName.Valid {
			s := evtName.String
			v.EventName = &s
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
