package handler // handler contains the echo handlers of the HTTP surface

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/timerange"
)

// requestTimeout bounds every handler's storage work.
const requestTimeout = 5 * time.Second

// requestContext derives the per-request context used for storage calls.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator ready to be set as echo's Validator.
func NewValidator() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate runs the struct's validate tags.
func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// bindAndValidate binds the request body into dst and validates it.  It
// returns a message suitable for a 400 response, or "" when dst is good.
func bindAndValidate(c echo.Context, dst interface{}) string {
	if err := c.Bind(dst); err != nil {
		return "invalid request body"
	}
	if err := c.Validate(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return verrs[0].Field() + " is " + describeTag(verrs[0].Tag())
		}
		return "invalid request body"
	}
	return ""
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "not a valid email"
	case "oneof":
		return "not an allowed value"
	case "min", "max", "gte", "lte":
		return "out of range"
	}
	return "invalid"
}

// timeErrorMessage maps time-range validation failures to client messages.
func timeErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, timerange.ErrInvalidDate):
		return "Invalid date, expected YYYY-MM-DD", true
	case errors.Is(err, timerange.ErrInvalidTimeFormat):
		return "Invalid time, expected HH:mm", true
	case errors.Is(err, timerange.ErrInvalidTimeGranularity):
		return "Times must be on a 30 minute boundary", true
	case errors.Is(err, timerange.ErrInvalidTimeRange):
		return "End time must be after start time", true
	}
	return "", false
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// Invalidator drops cached schedule views after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

func invalidate(c echo.Context, inv Invalidator) {
	if inv == nil {
		return
	}
	if err := inv.Invalidate(context.Background()); err != nil {
		c.Logger().Warnf("cache invalidation failed: %v", err)
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
