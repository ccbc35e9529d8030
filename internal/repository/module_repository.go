package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hall-booking/internal/model"
)

// ModuleRepo looks up and registers modules.
type ModuleRepo struct {
	db *sql.DB
}

// NewModuleRepo constructs a ModuleRepo with the given DB handle.
func NewModuleRepo(db *sql.DB) *ModuleRepo { return &ModuleRepo{db: db} }

// FindIDByCodeTx resolves a module code inside a transaction.  Returns
// ErrModuleNotFound when the code is unknown.
func (r *ModuleRepo) FindIDByCodeTx(ctx context.Context, tx *sql.Tx, code string) (uint64, error) {
	return findModuleID(ctx, tx, code)
}

// FindIDByCode resolves a module code.
func (r *ModuleRepo) FindIDByCode(ctx context.Context, code string) (uint64, error) {
	return findModuleID(ctx, r.db, code)
}

func findModuleID(ctx context.Context, q queryer, code string) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx, `SELECT module_id FROM modules WHERE module_code = ?`, strings.TrimSpace(code)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrModuleNotFound
		}
		return 0, err
	}
	return id, nil
}

// EnsureTx returns the id of the module with the given code, creating it
// when it does not exist yet.  A blank name defaults to the code.
func (r *ModuleRepo) EnsureTx(ctx context.Context, tx *sql.Tx, code, name string) (uint64, error) {
	code = strings.TrimSpace(code)
	id, err := findModuleID(ctx, tx, code)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrModuleNotFound) {
		return 0, err
	}
	if strings.TrimSpace(name) == "" {
		name = code
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO modules (module_code, name) VALUES (?, ?)`, code, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// Ensure is EnsureTx in its own transaction.
func (r *ModuleRepo) Ensure(ctx context.Context, code, name string) (*model.Module, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	id, err := r.EnsureTx(ctx, tx, code, name)
	if err != nil {
		return nil, err
	}
	var m model.Module
	if err := tx.QueryRowContext(ctx, `SELECT module_id, module_code, name FROM modules WHERE module_id = ?`, id).
		Scan(&m.ID, &m.Code, &m.Name); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &m, nil
}

// List returns every module ordered by code.
func (r *ModuleRepo) List(ctx context.Context) ([]model.Module, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT module_id, module_code, name FROM modules ORDER BY module_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Module{}
	for rows.Next() {
		var m model.Module
		if err := rows.Scan(&m.ID, &m.Code, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
