package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hall-booking/internal/database"
	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/testfixtures"
)

func TestBuildGrid(t *testing.T) {
	entries := []model.ConflictEntry{
		{HallName: "Lab A", Date: "2024-06-01", StartTime: "14:00:00", EndTime: "15:30:00", Type: model.BookingEvent, EventName: strPtr("Tech Talk")},
		{HallName: "Lab A", Date: "2024-06-01", StartTime: "09:45:00", EndTime: "10:30:00", Type: model.BookingLecture, ModuleCode: strPtr("EE2201")},
		{HallName: "Lab B", Date: "2024-06-01", StartTime: "08:00:00", EndTime: "09:00:00", Type: model.BookingEvent},
		{HallName: "Lab C", Date: "2024-06-01", StartTime: "08:00:00", EndTime: "09:00:00", Type: model.BookingLecture, ModuleCode: strPtr("XX1000")},
		{HallName: "Lab A", Date: "2024-06-02", StartTime: "08:00:00", EndTime: "09:00:00", Type: model.BookingLecture, ModuleCode: strPtr("XX1000")},
	}
	g := BuildGrid(mustDate(t, "2024-06-01"), []string{"Lab A", "Lab B"}, entries, GridOptions{})

	assert.Equal(t, "2024-06-01", g.Date)
	require.Len(t, g.Slots, 31)
	assert.Equal(t, "08:00", g.Slots[0])
	assert.Equal(t, "23:00", g.Slots[30])

	assert.Equal(t, map[string]string{
		"Lab A-14:00": "Tech Talk",
		"Lab A-14:30": "Tech Talk",
		"Lab A-15:00": "Tech Talk",
		"Lab A-09:30": "EE2201",
		"Lab A-10:00": "EE2201",
		"Lab B-08:00": "Reserved",
		"Lab B-08:30": "Reserved",
	}, g.Cells)

	again := BuildGrid(mustDate(t, "2024-06-01"), []string{"Lab A", "Lab B"}, entries, GridOptions{})
	assert.Equal(t, g, again)
}

func TestTimetableBuilder_Build(t *testing.T) {
	db := testfixtures.OpenSQLite(t)
	hall := testfixtures.SeedHall(t, db, "Lab A")
	testfixtures.SeedHall(t, db, "Lab B")
	mod := testfixtures.SeedModule(t, db, "EE2201")
	testfixtures.SeedLecture(t, db, hall, mod, "2024-06-01", "10:00:00", "11:00:00")

	b := NewTimetableBuilder(repository.NewScheduleRepo(db, database.SQLite), repository.NewHallRepo(db), GridOptions{})

	g, err := b.Build(context.Background(), "2024-06-01", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lab A", "Lab B"}, g.Halls)
	assert.Equal(t, map[string]string{"Lab A-10:00": "EE2201", "Lab A-10:30": "EE2201"}, g.Cells)

	g, err = b.Build(context.Background(), "2024-06-01", []string{"Lab B"})
	require.NoError(t, err)
	assert.Empty(t, g.Cells)

	_, err = b.Build(context.Background(), "June 1st", nil)
	assert.Error(t, err)
}
