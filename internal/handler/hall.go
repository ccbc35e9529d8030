package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
)

// HallHandler serves the hall registry.  Writes are admin-only and drop
// the cached timetables since hall names appear in them.
type HallHandler struct {
	Halls       *repository.HallRepo
	BookingRepo *repository.BookingRepo
	Cache       Invalidator
}

// NewHallHandler panics on nil repositories; cache may be nil.
func NewHallHandler(halls *repository.HallRepo, bookings *repository.BookingRepo, cache Invalidator) *HallHandler {
	if halls == nil || bookings == nil {
		panic("nil dependency passed to NewHallHandler")
	}
	return &HallHandler{Halls: halls, BookingRepo: bookings, Cache: cache}
}

type hallReq struct {
	Name                string `json:"name" validate:"required,max=100"`
	MainBuilding        string `json:"main_building" validate:"max=100"`
	NoOfSeats           uint32 `json:"no_of_seats"`
	ACAvailable         bool   `json:"ac_available"`
	NoOfProjectors      uint32 `json:"no_of_projectors"`
	AssignedTechOfficer string `json:"assigned_tech_officer" validate:"max=100"`
}

func (r hallReq) toModel(id uint64) *model.Hall {
	return &model.Hall{
		ID:                  id,
		Name:                strings.TrimSpace(r.Name),
		MainBuilding:        strings.TrimSpace(r.MainBuilding),
		NoOfSeats:           r.NoOfSeats,
		ACAvailable:         r.ACAvailable,
		NoOfProjectors:      r.NoOfProjectors,
		AssignedTechOfficer: strings.TrimSpace(r.AssignedTechOfficer),
	}
}

// List handles GET /api/halls.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	halls, err := h.Halls.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": halls})
}

// Search handles GET /api/halls/search?query=&building=&min_seats=&ac=&page=&page_size=.
func (h *HallHandler) Search(c echo.Context) error {
	q := repository.HallSearchQuery{
		Name:     strings.TrimSpace(c.QueryParam("query")),
		Building: strings.TrimSpace(c.QueryParam("building")),
	}
	if v := c.QueryParam("min_seats"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return badRequest(c, "invalid min_seats")
		}
		q.MinSeats = uint32(n)
	}
	q.ACOnly, _ = strconv.ParseBool(c.QueryParam("ac"))
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.PageSize, _ = strconv.Atoi(c.QueryParam("page_size"))

	ctx, cancel := requestContext(c)
	defer cancel()
	items, total, err := h.Halls.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": total})
}

// Get handles GET /api/halls/:id.
func (h *HallHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid hall id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		return h.hallError(c, err)
	}
	return c.JSON(http.StatusOK, hall)
}

// Bookings handles GET /api/halls/:id/bookings.
func (h *HallHandler) Bookings(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid hall id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if _, err := h.Halls.GetByID(ctx, id); err != nil {
		return h.hallError(c, err)
	}
	items, err := h.BookingRepo.ListByHall(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /api/halls.
func (h *HallHandler) Create(c echo.Context) error {
	var req hallReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	hall := req.toModel(0)
	if hall.Name == "" {
		return badRequest(c, "name is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Halls.Create(ctx, hall); err != nil {
		return h.hallError(c, err)
	}
	invalidate(c, h.Cache)
	return c.JSON(http.StatusCreated, hall)
}

// Update handles PUT /api/halls/:id.  Every attribute is replaced.
func (h *HallHandler) Update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid hall id")
	}
	var req hallReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	hall := req.toModel(id)
	if hall.Name == "" {
		return badRequest(c, "name is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Halls.Update(ctx, hall); err != nil {
		return h.hallError(c, err)
	}
	invalidate(c, h.Cache)
	return c.JSON(http.StatusOK, hall)
}

// Delete handles DELETE /api/halls/:id.  Halls with active bookings are
// kept and reported as a conflict.
func (h *HallHandler) Delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid hall id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Halls.Delete(ctx, id); err != nil {
		return h.hallError(c, err)
	}
	invalidate(c, h.Cache)
	return c.NoContent(http.StatusNoContent)
}

func (h *HallHandler) hallError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrHallNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
	case errors.Is(err, repository.ErrDuplicateName):
		return c.JSON(http.StatusConflict, echo.Map{"error": "hall name already exists"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "hall has active bookings"})
	}
	c.Logger().Errorf("hall: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
