package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/handler"
	"github.com/iliyamo/hall-booking/internal/middleware"
)

// RegisterBooking registers the availability and booking endpoints.  Both
// writes go through the rate limiter; creating a booking needs a JWT since
// the caller becomes the owner.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	e.POST("/api/check-availability", b.CheckAvailability, limiter)
	e.POST("/api/bookings", b.CreateBooking, middleware.JWTAuth(jwtSecret), limiter)
	e.GET("/api/my-bookings", b.MyBookings, middleware.JWTAuth(jwtSecret))
}

// RegisterTimetable registers the read-only schedule views.  They are
// served through the response cache, which the write handlers invalidate.
func RegisterTimetable(e *echo.Echo, t *handler.TimetableHandler, cache echo.MiddlewareFunc) {
	e.GET("/api/info", t.Info, cache)
	e.GET("/api/info/all", t.InfoAll, cache)
	e.GET("/api/info/hall/:hallId", t.InfoHall, cache)
	e.GET("/api/timetable", t.Grid, cache)
	e.GET("/api/events/:id", t.Event, cache)
}
