package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors is used to match sql.ErrNoRows

	"github.com/iliyamo/hall-booking/internal/model"
)

const hallColumns = `hall_id, name, main_building, no_of_seats, ac_available, no_of_projectors, assigned_tech_officer`

// HallRepo provides methods to create, look up and maintain halls.  It
// holds a database handle to perform queries and commands.
type HallRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanHall(s scanner) (*model.Hall, error) {
	var h model.Hall
	if err := s.Scan(&h.ID, &h.Name, &h.MainBuilding, &h.NoOfSeats, &h.ACAvailable, &h.NoOfProjectors, &h.AssignedTechOfficer); err != nil {
		return nil, err
	}
	return &h, nil
}

// ResolveID returns the id of the hall with exactly the given name.  It
// returns ErrHallNotFound when no hall matches.
func (r *HallRepo) ResolveID(ctx context.Context, name string) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx, `SELECT hall_id FROM halls WHERE name = ?`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrHallNotFound
		}
		return 0, err
	}
	return id, nil
}

// Create inserts a new hall.  After insert the ID field of the hall is
// set.  A duplicate name yields ErrDuplicateName.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (name, main_building, no_of_seats, ac_available, no_of_projectors, assigned_tech_officer)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.MainBuilding, h.NoOfSeats, h.ACAvailable, h.NoOfProjectors, h.AssignedTechOfficer)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)
	return nil
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when no
// row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	h, err := scanHall(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM halls WHERE hall_id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

// List returns every hall ordered by id.
func (r *HallRepo) List(ctx context.Context) ([]*model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+hallColumns+` FROM halls ORDER BY hall_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Hall{}
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Names returns the names of all halls ordered by id.  The timetable grid
// uses it when the caller does not pick halls.
func (r *HallRepo) Names(ctx context.Context) ([]string, error) {
	halls, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(halls))
	for _, h := range halls {
		names = append(names, h.Name)
	}
	return names, nil
}

// Update overwrites every attribute of the hall.  Returns ErrHallNotFound
// when the id does not exist and ErrDuplicateName when the new name is
// taken by another hall.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
	const q = `UPDATE halls
	           SET name = ?, main_building = ?, no_of_seats = ?, ac_available = ?, no_of_projectors = ?, assigned_tech_officer = ?
	           WHERE hall_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		h.Name, h.MainBuilding, h.NoOfSeats, h.ACAvailable, h.NoOfProjectors, h.AssignedTechOfficer, h.ID,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateName
		}
		return err
	}
	// MySQL reports zero affected rows when nothing changed, so confirm
	// existence before calling it a miss.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, h.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a hall.  Halls with active bookings cannot be deleted and
// yield ErrConflict; timetable rows of a deletable hall go with it.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var active int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE hall_id = ? AND status = ?`, id, model.BookingStatusBooked,
	).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM timetable WHERE hall_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM halls WHERE hall_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHallNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
