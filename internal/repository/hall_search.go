package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/hall-booking/internal/model"
)

// HallSearchQuery defines filters & pagination for searching halls.
type HallSearchQuery struct {
	Name     string
	Building string
	MinSeats uint32
	ACOnly   bool
	Page     int
	PageSize int
}

// Search returns one page of halls matching the filters together with the
// total number of matches.  Name and building match case-insensitively on
// substrings.
func (r *HallRepo) Search(ctx context.Context, q HallSearchQuery) ([]*model.Hall, int64, error) {
	where := []string{}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Building != "" {
		where = append(where, "LOWER(main_building) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Building)+"%")
	}
	if q.MinSeats > 0 {
		where = append(where, "no_of_seats >= ?")
		args = append(args, q.MinSeats)
	}
	if q.ACOnly {
		where = append(where, "ac_available = 1")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM halls WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if q.PageSize <= 0 {
		q.PageSize = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize

	dataSQL := `SELECT ` + hallColumns + ` FROM halls WHERE ` + cond + ` ORDER BY name ASC, hall_id ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, dataSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*model.Hall{}
	for rows.Next() {
		h, err := scanHall(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
