package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/service"
	"github.com/iliyamo/hall-booking/internal/timerange"
)

// TimetableHandler serves read-only views of the schedule.
type TimetableHandler struct {
	Schedule *repository.ScheduleRepo
	Halls    *repository.HallRepo
	Events   *repository.EventRepo
	Builder  *service.TimetableBuilder
}

// NewTimetableHandler panics on nil dependencies.
func NewTimetableHandler(schedule *repository.ScheduleRepo, halls *repository.HallRepo, events *repository.EventRepo,
	builder *service.TimetableBuilder) *TimetableHandler {
	if schedule == nil || halls == nil || events == nil || builder == nil {
		panic("nil dependency passed to NewTimetableHandler")
	}
	return &TimetableHandler{Schedule: schedule, Halls: halls, Events: events, Builder: builder}
}

// dateQuery reads the mandatory ?date= parameter.  A non-empty message
// means the parameter is missing or malformed.
func dateQuery(c echo.Context) (time.Time, string) {
	raw := strings.TrimSpace(c.QueryParam("date"))
	if raw == "" {
		return time.Time{}, "Missing date parameter"
	}
	d, err := timerange.ParseDate(raw)
	if err != nil {
		msg, _ := timeErrorMessage(err)
		return time.Time{}, msg
	}
	return d, ""
}

// Info handles GET /api/info?date= and lists every commitment of the day.
func (h *TimetableHandler) Info(c echo.Context) error {
	d, msg := dateQuery(c)
	if msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.Schedule.ListForDate(ctx, d)
	if err != nil {
		c.Logger().Errorf("info: %v", err)
		return message(c, http.StatusInternalServerError, "Failed to load timetable")
	}
	return c.JSON(http.StatusOK, entries)
}

// InfoAll handles GET /api/info/all.
func (h *TimetableHandler) InfoAll(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.Schedule.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("info all: %v", err)
		return message(c, http.StatusInternalServerError, "Failed to load timetable")
	}
	return c.JSON(http.StatusOK, entries)
}

// InfoHall handles GET /api/info/hall/:hallId?date=.
func (h *TimetableHandler) InfoHall(c echo.Context) error {
	hallID, ok := parseIDParam(c, "hallId")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid hall id")
	}
	d, msg := dateQuery(c)
	if msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if _, err := h.Halls.GetByID(ctx, hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return message(c, http.StatusNotFound, "Hall not found")
		}
		return message(c, http.StatusInternalServerError, "Failed to load timetable")
	}
	entries, err := h.Schedule.ListForHallAndDate(ctx, hallID, d)
	if err != nil {
		c.Logger().Errorf("info hall %d: %v", hallID, err)
		return message(c, http.StatusInternalServerError, "Failed to load timetable")
	}
	return c.JSON(http.StatusOK, entries)
}

// Grid handles GET /api/timetable?date=&halls=A,B and returns the slot
// grid.  Without halls every hall is included.
func (h *TimetableHandler) Grid(c echo.Context) error {
	d, msg := dateQuery(c)
	if msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}
	var halls []string
	for _, name := range strings.Split(c.QueryParam("halls"), ",") {
		if name = strings.TrimSpace(name); name != "" {
			halls = append(halls, name)
		}
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	grid, err := h.Builder.Build(ctx, d.Format(timerange.DateLayout), halls)
	if err != nil {
		c.Logger().Errorf("timetable grid: %v", err)
		return message(c, http.StatusInternalServerError, "Failed to build timetable")
	}
	return c.JSON(http.StatusOK, grid)
}

// Event handles GET /api/events/:id, the details behind an event_id of the
// schedule views.
func (h *TimetableHandler) Event(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return message(c, http.StatusBadRequest, "Invalid event id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return message(c, http.StatusNotFound, "Event not found")
		}
		c.Logger().Errorf("event %d: %v", id, err)
		return message(c, http.StatusInternalServerError, "Failed to load event")
	}
	return c.JSON(http.StatusOK, ev)
}
