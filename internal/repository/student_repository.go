package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hall-booking/internal/model"
)

// StudentRepo keeps the student registry: STUDENT users and their
// profile rows.
type StudentRepo struct {
	db    *sql.DB
	users *UserRepo
}

// NewStudentRepo constructs a StudentRepo on top of the user repository.
func NewStudentRepo(db *sql.DB, users *UserRepo) *StudentRepo {
	return &StudentRepo{db: db, users: users}
}

// StudentInput carries the editable fields of a student.  On update an
// empty Password keeps the current one.
type StudentInput struct {
	RegNo            string
	Name             string
	Password         string
	Email            string
	ContactNo        string
	Department       string
	Batch            string
	Purpose          string
	SocietyName      string
	LecturerInCharge string
}

func (in StudentInput) purpose() string {
	if p := strings.TrimSpace(in.Purpose); p != "" {
		return p
	}
	return "None"
}

// Profile columns come from a LEFT JOIN so self-registered students with
// no profile row are listed too.
const studentSelect = `SELECT u.user_id, u.reg_no, u.name,
       COALESCE(s.email, ''), COALESCE(s.contact_no, ''), COALESCE(s.department, ''), COALESCE(s.batch, ''),
       COALESCE(s.purpose, 'None'), COALESCE(s.society_name, ''), COALESCE(s.lecturer_in_charge, '')
FROM users u
LEFT JOIN students s ON s.student_id = u.user_id
WHERE u.role = ?`

func scanStudent(s scanner) (model.Student, error) {
	var st model.Student
	err := s.Scan(&st.UserID, &st.RegNo, &st.Name, &st.Email, &st.ContactNo, &st.Department,
		&st.Batch, &st.Purpose, &st.SocietyName, &st.LecturerInCharge)
	return st, err
}

// Create inserts the user and its profile in one transaction and returns
// the new user id.  A taken registration number yields ErrRegNoExists.
func (r *StudentRepo) Create(ctx context.Context, in StudentInput, cost int) (uint64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	uid, err := r.users.CreateTx(ctx, tx, in.RegNo, in.Name, in.Password, model.RoleStudent, cost)
	if err != nil {
		return 0, err
	}
	if err := writeStudentProfileTx(ctx, tx, uid, in); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uid, nil
}

// Update rewrites the user fields and the profile.  Returns
// ErrUserNotFound when id is not a student.
func (r *StudentRepo) Update(ctx context.Context, id uint64, in StudentInput, cost int) error {
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

	if err := r.users.UpdateTx(ctx, tx, id, model.RoleStudent, in.RegNo, in.Name, in.Password, cost); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE student_id = ?`, id); err != nil {
		return err
	}
	if err := writeStudentProfileTx(ctx, tx, id, in); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func writeStudentProfileTx(ctx context.Context, tx *sql.Tx, id uint64, in StudentInput) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO students (student_id, email, contact_no, department, batch, purpose, society_name, lecturer_in_charge)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, strings.TrimSpace(in.Email), strings.TrimSpace(in.ContactNo), strings.TrimSpace(in.Department),
		strings.TrimSpace(in.Batch), in.purpose(), strings.TrimSpace(in.SocietyName), strings.TrimSpace(in.LecturerInCharge))
	return err
}

// GetByID returns one student or ErrUserNotFound.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	st, err := scanStudent(r.db.QueryRowContext(ctx, studentSelect+` AND u.user_id = ?`, model.RoleStudent, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Student{}, ErrUserNotFound
	}
	return st, err
}

// List returns every student ordered by registration number.
func (r *StudentRepo) List(ctx context.Context) ([]model.Student, error) {
	return r.query(ctx, studentSelect+` ORDER BY u.reg_no ASC`, model.RoleStudent)
}

// Search returns at most limit students whose name or registration number
// contains query, case-insensitively.
func (r *StudentRepo) Search(ctx context.Context, query string, limit int) ([]model.Student, error) {
	if limit <= 0 {
		limit = 10
	}
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	return r.query(ctx,
		studentSelect+` AND (LOWER(u.name) LIKE ? OR LOWER(u.reg_no) LIKE ?) ORDER BY u.reg_no ASC LIMIT ?`,
		model.RoleStudent, like, like, limit)
}

// Delete removes a student.  Students with active bookings yield
// ErrConflict.
func (r *StudentRepo) Delete(ctx context.Context, id uint64) error {
	return r.users.DeleteWithRole(ctx, id, model.RoleStudent)
}

func (r *StudentRepo) query(ctx context.Context, q string, args ...any) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
