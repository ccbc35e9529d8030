package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/handler"
	"github.com/iliyamo/hall-booking/internal/middleware"
	"github.com/iliyamo/hall-booking/internal/model"
)

// RegisterHalls registers the public hall registry reads and the ADMIN
// scoped writes.
func RegisterHalls(e *echo.Echo, h *handler.HallHandler, jwtSecret string) {
	e.GET("/api/halls", h.List)
	e.GET("/api/halls/search", h.Search)
	e.GET("/api/halls/:id", h.Get)
	e.GET("/api/halls/:id/bookings", h.Bookings)

	admin := adminOnly(jwtSecret)
	e.POST("/api/halls", h.Create, admin...)
	e.PUT("/api/halls/:id", h.Update, admin...)
	e.DELETE("/api/halls/:id", h.Delete, admin...)
}

// RegisterRegistry registers staff and module management.  Module listing
// is public; everything else is ADMIN only.
func RegisterRegistry(e *echo.Echo, r *handler.RegistryHandler, jwtSecret string) {
	e.GET("/api/modules", r.ListModules)

	admin := adminOnly(jwtSecret)
	e.POST("/api/staff", r.RegisterStaff, admin...)
	e.GET("/api/staff", r.ListStaff, admin...)
	e.PUT("/api/staff/:id", r.UpdateStaff, admin...)
	e.DELETE("/api/staff/:id", r.DeleteStaff, admin...)
	e.POST("/api/modules", r.CreateModule, admin...)
}

// RegisterStudents registers the ADMIN scoped student registry.
func RegisterStudents(e *echo.Echo, s *handler.StudentHandler, jwtSecret string) {
	admin := adminOnly(jwtSecret)
	e.POST("/api/students", s.Create, admin...)
	e.GET("/api/students", s.List, admin...)
	e.GET("/api/students/search", s.Search, admin...)
	e.GET("/api/students/:id", s.Get, admin...)
	e.PUT("/api/students/:id", s.Update, admin...)
	e.DELETE("/api/students/:id", s.Delete, admin...)
}

// RegisterNotes registers special notes.  Notes addressed to everyone are
// public; the rest is ADMIN only.
func RegisterNotes(e *echo.Echo, n *handler.NoteHandler, jwtSecret string) {
	e.GET("/api/special-notes/all", n.Public)

	admin := adminOnly(jwtSecret)
	e.GET("/api/special-notes", n.List, admin...)
	e.GET("/api/special-notes/:id", n.Get, admin...)
	e.POST("/api/special-notes", n.Create, admin...)
	e.PUT("/api/special-notes/:id", n.Update, admin...)
	e.DELETE("/api/special-notes/:id", n.Delete, admin...)
}

// adminOnly is attached per route rather than per group so unknown paths
// under /api still answer 404 instead of 401.
func adminOnly(jwtSecret string) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin)}
}
