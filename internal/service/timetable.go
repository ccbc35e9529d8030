package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

// GridOptions shapes the slot grid.  Zero values take the defaults:
// 30 minute slots from 08:00 to 23:00.
type GridOptions struct {
	SlotMinutes int
	DayStart    timerange.Clock
	DayEnd      timerange.Clock
}

func (o GridOptions) withDefaults() GridOptions {
	if o.SlotMinutes <= 0 {
		o.SlotMinutes = timerange.SlotMinutes
	}
	if o.DayStart == 0 && o.DayEnd == 0 {
		o.DayStart = timerange.NewClock(8, 0)
		o.DayEnd = timerange.NewClock(23, 0)
	}
	return o
}

// Grid is the timetable of a day as hall-by-slot cells.  Cells maps
// "<hall>-<HH:MM>" to the label occupying that slot; free slots have no
// key.
type Grid struct {
	Date  string            `json:"date"`
	Halls []string          `json:"halls"`
	Slots []string          `json:"slots"`
	Cells map[string]string `json:"cells"`
}

// CellKey returns the Cells key of a hall and slot.
func CellKey(hall string, slot timerange.Clock) string {
	return hall + "-" + slot.String()
}

// BuildGrid lays entries of the listed halls on date onto the slot grid.
// An entry covers every slot from its start, rounded down to the slot
// size, up to but excluding its end.  Entries of other dates or halls are
// ignored.
func BuildGrid(date time.Time, hallNames []string, entries []model.ConflictEntry, opts GridOptions) Grid {
	opts = opts.withDefaults()
	day := date.Format(timerange.DateLayout)

	g := Grid{Date: day, Halls: append([]string{}, hallNames...), Cells: map[string]string{}}
	for c := opts.DayStart; c <= opts.DayEnd; c = c.Add(opts.SlotMinutes) {
		g.Slots = append(g.Slots, c.String())
	}

	listed := make(map[string]bool, len(hallNames))
	for _, h := range hallNames {
		listed[h] = true
	}
	for _, e := range entries {
		if e.Date != day || !listed[e.HallName] {
			continue
		}
		start, err := timerange.ParseClock(e.StartTime)
		if err != nil {
			continue
		}
		end, err := timerange.ParseClock(e.EndTime)
		if err != nil {
			continue
		}
		label := e.Name()
		covered := timerange.Range{Date: date, Start: timerange.Quantize(start), End: end}
		for _, c := range covered.Slots(opts.SlotMinutes) {
			g.Cells[CellKey(e.HallName, c)] = label
		}
	}
	return g
}

// DayLister returns the merged schedule of every hall on a date.
type DayLister interface {
	ListForDate(ctx context.Context, date time.Time) ([]model.ConflictEntry, error)
}

// HallNamer lists hall names in registration order.
type HallNamer interface {
	Names(ctx context.Context) ([]string, error)
}

// TimetableBuilder loads a day of the schedule and renders it as a Grid.
type TimetableBuilder struct {
	schedule DayLister
	halls    HallNamer
	opts     GridOptions
}

// NewTimetableBuilder panics on nil dependencies.
func NewTimetableBuilder(schedule DayLister, halls HallNamer, opts GridOptions) *TimetableBuilder {
	if schedule == nil || halls == nil {
		panic("nil dependency passed to NewTimetableBuilder")
	}
	return &TimetableBuilder{schedule: schedule, halls: halls, opts: opts}
}

// Build renders the grid of date.  With no hall names every hall is shown.
func (b *TimetableBuilder) Build(ctx context.Context, date string, hallNames []string) (Grid, error) {
	d, err := timerange.ParseDate(date)
	if err != nil {
		return Grid{}, err
	}
	if len(hallNames) == 0 {
		if hallNames, err = b.halls.Names(ctx); err != nil {
			return Grid{}, fmt.Errorf("list halls: %w", err)
		}
	}
	entries, err := b.schedule.ListForDate(ctx, d)
	if err != nil {
		return Grid{}, fmt.Errorf("list schedule: %w", err)
	}
	return BuildGrid(d, hallNames, entries, b.opts), nil
}
