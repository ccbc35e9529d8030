package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hall-booking/internal/model"
)

// StaffRepo registers staff members and the modules they teach.
type StaffRepo struct {
	db      *sql.DB
	users   *UserRepo
	modules *ModuleRepo
}

// NewStaffRepo constructs a StaffRepo.  It reuses the user and module
// repositories so a registration is one transaction across all tables.
func NewStaffRepo(db *sql.DB, users *UserRepo, modules *ModuleRepo) *StaffRepo {
	return &StaffRepo{db: db, users: users, modules: modules}
}

// NewStaff carries the registration input for a staff member.  On update
// an empty Password keeps the current one and nil Modules keep the
// current links.
type NewStaff struct {
	RegNo         string
	Name          string
	Password      string
	Department    string
	Email         string
	ContactNumber string
	StaffType     string
	Modules       []string
}

// Create inserts the user, the staff profile and, for academic staff, a
// link to every taught module.  Unknown module codes are created on the
// fly with the code as their name.  Returns the new user id.
func (r *StaffRepo) Create(ctx context.Context, s NewStaff, cost int) (uint64, error) {
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

	uid, err := r.users.CreateTx(ctx, tx, s.RegNo, s.Name, s.Password, model.RoleStaff, cost)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO staff (staff_id, department, email, contact_number, staff_type) VALUES (?, ?, ?, ?, ?)`,
		uid, s.Department, s.Email, s.ContactNumber, s.StaffType); err != nil {
		return 0, err
	}
	if s.StaffType == "Academic" {
		if err := r.linkModulesTx(ctx, tx, uid, s.Modules); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return uid, nil
}

// List returns staff members whose name or registration number contains
// query (all staff when query is empty), with their module codes.  A
// non-empty staffType keeps only Academic or Non-Academic staff.
func (r *StaffRepo) List(ctx context.Context, query, staffType string) ([]model.Staff, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	q := `SELECT u.user_id, u.reg_no, u.name, s.department, s.email, s.contact_number, s.staff_type
		 FROM staff s
		 JOIN users u ON u.user_id = s.staff_id
		 WHERE (LOWER(u.name) LIKE ? OR LOWER(u.reg_no) LIKE ?)`
	args := []any{like, like}
	if staffType != "" {
		q += ` AND s.staff_type = ?`
		args = append(args, staffType)
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY u.name ASC, u.user_id ASC`, args...)
	if err != nil {
		return nil, err
	}
	out := []model.Staff{}
	index := make(map[uint64]int)
	for rows.Next() {
		var s model.Staff
		if err := rows.Scan(&s.UserID, &s.RegNo, &s.Name, &s.Department, &s.Email, &s.ContactNumber, &s.StaffType); err != nil {
			rows.Close()
			return nil, err
		}
		s.Modules = []string{}
		index[s.UserID] = len(out)
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// Fetch module codes for all listed staff in one query.
	mrows, err := r.db.QueryContext(ctx,
		`SELECT sm.staff_id, m.module_code FROM staff_modules sm
		 JOIN modules m ON m.module_id = sm.module_id
		 ORDER BY m.module_code`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var (
			sid  uint64
			code string
		)
		if err := mrows.Scan(&sid, &code); err != nil {
			return nil, err
		}
		if i, ok := index[sid]; ok {
			out[i].Modules = append(out[i].Modules, code)
		}
	}
	return out, mrows.Err()
}

// Update rewrites the user fields and the staff profile.  For academic
// staff a non-nil module list replaces the links, creating unknown codes;
// non-academic staff lose their links.  Returns ErrUserNotFound when id is
// not a staff member.
func (r *StaffRepo) Update(ctx context.Context, id uint64, s NewStaff, cost int) error {
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

	if err := r.users.UpdateTx(ctx, tx, id, model.RoleStaff, s.RegNo, s.Name, s.Password, cost); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE staff SET department = ?, email = ?, contact_number = ?, staff_type = ? WHERE staff_id = ?`,
		s.Department, s.Email, s.ContactNumber, s.StaffType, id); err != nil {
		return err
	}
	if s.StaffType != "Academic" || s.Modules != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM staff_modules WHERE staff_id = ?`, id); err != nil {
			return err
		}
	}
	if s.StaffType == "Academic" {
		if err := r.linkModulesTx(ctx, tx, id, s.Modules); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a staff member and its module links.  Staff with active
// bookings yield ErrConflict.
func (r *StaffRepo) Delete(ctx context.Context, id uint64) error {
	return r.users.DeleteWithRole(ctx, id, model.RoleStaff)
}

// linkModulesTx links every distinct non-blank code to the staff member.
// Unknown codes are created with the code as their name.
func (r *StaffRepo) linkModulesTx(ctx context.Context, tx *sql.Tx, staffID uint64, codes []string) error {
	linked := make(map[uint64]bool)
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		mid, err := r.modules.EnsureTx(ctx, tx, code, code)
		if err != nil {
			return err
		}
		if linked[mid] {
			continue
		}
		linked[mid] = true
		if _, err := tx.ExecContext(ctx, `INSERT INTO staff_modules (staff_id, module_id) VALUES (?, ?)`, staffID, mid); err != nil {
			return err
		}
	}
	return nil
}
