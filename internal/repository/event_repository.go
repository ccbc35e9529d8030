package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-booking/internal/model"
)

// EventRepo creates the event records behind event bookings.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// CreateTx inserts an event within the caller's transaction and sets the
// generated ID.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events (name, society, target_group, lecturer_incharge_id) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, e.Name, e.Society, e.TargetGroup, e.LecturerInchargeID)
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

// GetByID loads an event, or returns ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var (
		e       model.Event
		society sql.NullString
		owner   sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT event_id, name, society, target_group, lecturer_incharge_id FROM events WHERE event_id = ?`, id,
	).Scan(&e.ID, &e.Name, &society, &e.TargetGroup, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if society.Valid {
		s := society.String
		e.Society = &s
	}
	if owner.Valid {
		e.LecturerInchargeID = uint64(owner.Int64)
	}
	return &e, nil
}
