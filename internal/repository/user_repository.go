package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// normalizeRegNo trims and upper-cases a registration number so that
// "eg/2020/001" and "EG/2020/001" are the same account.
func normalizeRegNo(regNo string) string {
	return strings.ToUpper(strings.TrimSpace(regNo))
}

// Create hashes the password, inserts the user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, regNo, name, password, role string, cost int) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()
	id, err := r.CreateTx(ctx, tx, regNo, name, password, role, cost)
	if err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

// CreateTx inserts a user within the caller's transaction.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, regNo, name, password, role string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (reg_no, name, password_hash, role) VALUES (?,?,?,?)",
		normalizeRegNo(regNo), strings.TrimSpace(name), hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrRegNoExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByRegNo fetches a user by normalized registration number.
func (r *UserRepo) GetByRegNo(ctx context.Context, regNo string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,reg_no,name,password_hash,role,is_active FROM users WHERE reg_no=? LIMIT 1",
		normalizeRegNo(regNo)).Scan(&u.ID, &u.RegNo, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id,reg_no,name,password_hash,role,is_active FROM users WHERE user_id=? LIMIT 1",
		id).Scan(&u.ID, &u.RegNo, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive)
	return u, err
}

// EnsureAdmin creates the bootstrap administrator when no user holds the
// registration number yet.  It reports whether a user was created.
func (r *UserRepo) EnsureAdmin(ctx context.Context, regNo, password string, cost int) (bool, error) {
	if _, err := r.GetByRegNo(ctx, regNo); err == nil {
		return false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	if _, err := r.Create(ctx, regNo, "Administrator", password, model.RoleAdmin, cost); err != nil {
		if errors.Is(err, ErrRegNoExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// UpdateTx rewrites the registration number and name of a user holding
// role.  The password is replaced only when one is given.  Returns
// ErrUserNotFound when no such user exists and ErrRegNoExists when the
// new registration number is taken.
func (r *UserRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id uint64, role, regNo, name, password string, cost int) error {
	if err := requireRoleTx(ctx, tx, id, role); err != nil {
		return err
	}
	q := "UPDATE users SET reg_no=?, name=?"
	args := []any{normalizeRegNo(regNo), strings.TrimSpace(name)}
	if strings.TrimSpace(password) != "" {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return err
		}
		q += ", password_hash=?"
		args = append(args, hash)
	}
	q += " WHERE user_id=?"
	args = append(args, id)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		if isDuplicateKey(err) {
			return ErrRegNoExists
		}
		return err
	}
	return nil
}

// DeleteWithRole removes a user holding role together with its profile
// rows.  Users that still own active bookings are kept and yield
// ErrConflict.
func (r *UserRepo) DeleteWithRole(ctx context.Context, id uint64, role string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := requireRoleTx(ctx, tx, id, role); err != nil {
		return err
	}
	var active int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE user_id=? AND status=?", id, model.BookingStatusBooked,
	).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	// Cancelled bookings keep a reference to the user.
	if _, err := tx.ExecContext(ctx, "DELETE FROM bookings WHERE user_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE user_id=?", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func requireRoleTx(ctx context.Context, tx *sql.Tx, id uint64, role string) error {
	var got string
	err := tx.QueryRowContext(ctx, "SELECT role FROM users WHERE user_id=?", id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && got != role) {
		return ErrUserNotFound
	}
	return err
}
