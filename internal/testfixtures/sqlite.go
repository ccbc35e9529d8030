// Package testfixtures provides a migrated SQLite database and seed helpers
// for repository, service and handler tests.
package testfixtures

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/iliyamo/hall-booking/internal/database"
)

// OpenSQLite creates a temporary SQLite database, applies the schema and
// registers a cleanup with tb.  Transactions start with BEGIN IMMEDIATE so
// that a booking transaction holds the write lock from its first
// statement, which is how SQLite stands in for MySQL's row lock.
func OpenSQLite(tb testing.TB) *sql.DB {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "booking.db")
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	// One connection keeps writers strictly ordered.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(context.Background(), db, database.SQLite); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })
	return db
}

// SeedHall inserts a hall with default attributes and returns its id.
func SeedHall(tb testing.TB, db *sql.DB, name string) uint64 {
	tb.Helper()
	return insert(tb, db,
		"INSERT INTO halls (name, main_building, no_of_seats, ac_available, no_of_projectors, assigned_tech_officer) VALUES (?, ?, ?, ?, ?, ?)",
		name, "Main", 120, true, 2, "Officer")
}

// SeedModule inserts a module whose name equals its code.
func SeedModule(tb testing.TB, db *sql.DB, code string) uint64 {
	tb.Helper()
	return insert(tb, db, "INSERT INTO modules (module_code, name) VALUES (?, ?)", code, code)
}

// SeedUser inserts an active user with a placeholder password hash.
func SeedUser(tb testing.TB, db *sql.DB, regNo, role string) uint64 {
	tb.Helper()
	return insert(tb, db,
		"INSERT INTO users (reg_no, name, password_hash, role) VALUES (?, ?, ?, ?)",
		regNo, regNo, "x", role)
}

// SeedLecture inserts a timetable row for a module without a matching
// booking, the way recurring lectures are loaded by administrators.
func SeedLecture(tb testing.TB, db *sql.DB, hallID, moduleID uint64, date, start, end string) uint64 {
	tb.Helper()
	return insert(tb, db,
		"INSERT INTO timetable (hall_id, date, start_time, end_time, module_id) VALUES (?, ?, ?, ?, ?)",
		hallID, date, start, end, moduleID)
}

// Count returns the number of rows in table.
func Count(tb testing.TB, db *sql.DB, table string) int {
	tb.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		tb.Fatalf("count %s: %v", table, err)
	}
	return n
}

func insert(tb testing.TB, db *sql.DB, q string, args ...any) uint64 {
	tb.Helper()
	res, err := db.Exec(q, args...)
	if err != nil {
		tb.Fatalf("seed: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tb.Fatalf("seed id: %v", err)
	}
	return uint64(id)
}
