package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/middleware"
	"github.com/iliyamo/hall-booking/internal/repository"
	"github.com/iliyamo/hall-booking/internal/service"
)

// BookingHandler serves availability checks and booking creation.  The
// booking endpoints answer with {"message": ...} bodies, which is what
// the booking form renders.
type BookingHandler struct {
	Checker     *service.AvailabilityChecker
	Coordinator *service.BookingCoordinator
	Bookings    *repository.BookingRepo
	Cache       Invalidator
}

// NewBookingHandler panics on nil dependencies; cache may be nil.
func NewBookingHandler(checker *service.AvailabilityChecker, coordinator *service.BookingCoordinator,
	bookings *repository.BookingRepo, cache Invalidator) *BookingHandler {
	if checker == nil || coordinator == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Checker: checker, Coordinator: coordinator, Bookings: bookings, Cache: cache}
}

type slotReq struct {
	Date      string `json:"date" validate:"required"`
	HallName  string `json:"hallName" validate:"required"`
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type bookingReq struct {
	slotReq
	BookingType string `json:"bookingType" validate:"required"`
	ModuleCode  string `json:"moduleCode"`
	EventName   string `json:"eventName"`
	TargetBatch string `json:"targetBatch"`
	Department  string `json:"department"`
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"message": msg})
}

// CheckAvailability handles POST /api/check-availability.
func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	var req slotReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	res, err := h.Checker.Check(ctx, service.AvailabilityQuery{
		HallName: req.HallName, Date: req.Date, StartTime: req.StartTime, EndTime: req.EndTime,
	})
	if err != nil {
		if errors.Is(err, service.ErrHallNotFound) {
			return message(c, http.StatusNotFound, "Hall not found")
		}
		if msg, ok := timeErrorMessage(err); ok {
			return message(c, http.StatusBadRequest, msg)
		}
		c.Logger().Errorf("availability check: %v", err)
		return message(c, http.StatusInternalServerError, "Availability check failed")
	}
	return c.JSON(http.StatusOK, res)
}

// CreateBooking handles POST /api/bookings.  The caller's identity is the
// booking owner.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return message(c, http.StatusUnauthorized, "Authentication required")
	}
	var req bookingReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return message(c, http.StatusBadRequest, msg)
	}
	commitment, err := service.ParseCommitment(req.BookingType, req.ModuleCode, req.EventName, req.TargetBatch, req.Department)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid booking type")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	receipt, err := h.Coordinator.CreateBooking(ctx, service.BookingRequest{
		HallName:   req.HallName,
		Date:       req.Date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		OwnerID:    uid,
		Commitment: commitment,
	})
	if err != nil {
		return h.bookingError(c, err)
	}
	invalidate(c, h.Cache)
	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Booking successful",
		"booking_id":   receipt.BookingID,
		"timetable_id": receipt.TimetableID,
	})
}

func (h *BookingHandler) bookingError(c echo.Context, err error) error {
	var conflict *service.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"message": "Time slot is already booked", "clashes": conflict.Clashes})
	case errors.Is(err, service.ErrMissingIdentity):
		return message(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, service.ErrHallNotFound):
		return message(c, http.StatusBadRequest, "Invalid hall name")
	case errors.Is(err, service.ErrInvalidModuleCode):
		return message(c, http.StatusBadRequest, "Invalid module code")
	case errors.Is(err, service.ErrInvalidEventName):
		return message(c, http.StatusBadRequest, "Event name is required")
	case errors.Is(err, service.ErrInvalidBookingType):
		return message(c, http.StatusBadRequest, "Invalid booking type")
	}
	if msg, ok := timeErrorMessage(err); ok {
		return message(c, http.StatusBadRequest, msg)
	}
	c.Logger().Errorf("booking: %v", err)
	return message(c, http.StatusInternalServerError, "Booking failed")
}

// MyBookings handles GET /api/my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
