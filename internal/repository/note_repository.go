package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hall-booking/internal/model"
)

// NoteRepo stores the special notes administrators publish.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo constructs a NoteRepo with the given DB handle.
func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

const noteSelect = `SELECT note_id, content, for_whom, CAST(created_at AS CHAR) FROM special_notes`

// Create inserts a note and fills in its id and creation time.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	res, err := r.db.ExecContext(ctx, `INSERT INTO special_notes (content, for_whom) VALUES (?, ?)`, n.Content, n.ForWhom)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*n = saved
	return nil
}

// GetByID returns one note or ErrNoteNotFound.
func (r *NoteRepo) GetByID(ctx context.Context, id uint64) (model.Note, error) {
	var n model.Note
	err := r.db.QueryRowContext(ctx, noteSelect+` WHERE note_id = ?`, id).Scan(&n.ID, &n.Content, &n.ForWhom, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, ErrNoteNotFound
	}
	return n, err
}

// List returns notes newest first.  A non-empty audience keeps only the
// notes addressed to it.
func (r *NoteRepo) List(ctx context.Context, audience string) ([]model.Note, error) {
	q, args := noteSelect, []any{}
	if audience != "" {
		q += ` WHERE for_whom = ?`
		args = append(args, audience)
	}
	rows, err := r.db.QueryContext(ctx, q+` ORDER BY created_at DESC, note_id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Note{}
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.ForWhom, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Update replaces the content and audience of a note.
func (r *NoteRepo) Update(ctx context.Context, n *model.Note) error {
	if _, err := r.GetByID(ctx, n.ID); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE special_notes SET content = ?, for_whom = ? WHERE note_id = ?`, n.Content, n.ForWhom, n.ID); err != nil {
		return err
	}
	saved, err := r.GetByID(ctx, n.ID)
	if err != nil {
		return err
	}
	*n = saved
	return nil
}

// Delete removes a note.
func (r *NoteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM special_notes WHERE note_id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoteNotFound
	}
	return nil
}
