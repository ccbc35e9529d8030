package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/config"
	"github.com/iliyamo/hall-booking/internal/repository"
)

// RegistryHandler serves staff and module registration.
type RegistryHandler struct {
	Cfg     config.Config
	Staff   *repository.StaffRepo
	Modules *repository.ModuleRepo
}

// NewRegistryHandler panics on nil repositories.
func NewRegistryHandler(cfg config.Config, staff *repository.StaffRepo, modules *repository.ModuleRepo) *RegistryHandler {
	if staff == nil || modules == nil {
		panic("nil dependency passed to NewRegistryHandler")
	}
	return &RegistryHandler{Cfg: cfg, Staff: staff, Modules: modules}
}

type staffReq struct {
	RegNo         string   `json:"reg_no" validate:"required,max=50"`
	Name          string   `json:"name" validate:"required,max=100"`
	Password      string   `json:"password" validate:"required,min=6"`
	Department    string   `json:"department" validate:"required"`
	Email         string   `json:"email" validate:"omitempty,email"`
	ContactNumber string   `json:"contact_number" validate:"max=20"`
	StaffType     string   `json:"staff_type" validate:"required,oneof=Academic Non-Academic"`
	Modules       []string `json:"modules"`
}

// RegisterStaff handles POST /api/staff.  Module codes of academic staff
// that do not exist yet are created.
func (h *RegistryHandler) RegisterStaff(c echo.Context) error {
	var req staffReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	id, err := h.Staff.Create(ctx, repository.NewStaff{
		RegNo:         req.RegNo,
		Name:          strings.TrimSpace(req.Name),
		Password:      req.Password,
		Department:    strings.TrimSpace(req.Department),
		Email:         strings.TrimSpace(req.Email),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		StaffType:     req.StaffType,
		Modules:       req.Modules,
	}, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrRegNoExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "registration number already exists"})
		}
		c.Logger().Errorf("register staff: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "staff registration failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"staff_id": id})
}

// ListStaff handles GET /api/staff?query=&type=.
func (h *RegistryHandler) ListStaff(c echo.Context) error {
	staffType := strings.TrimSpace(c.QueryParam("type"))
	if staffType != "" && staffType != "Academic" && staffType != "Non-Academic" {
		return badRequest(c, "type must be Academic or Non-Academic")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Staff.List(ctx, c.QueryParam("query"), staffType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list staff"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// staffUpdateReq is staffReq with an optional password.
type staffUpdateReq struct {
	RegNo         string   `json:"reg_no" validate:"required,max=50"`
	Name          string   `json:"name" validate:"required,max=100"`
	Password      string   `json:"password" validate:"omitempty,min=6"`
	Department    string   `json:"department" validate:"required"`
	Email         string   `json:"email" validate:"omitempty,email"`
	ContactNumber string   `json:"contact_number" validate:"max=20"`
	StaffType     string   `json:"staff_type" validate:"required,oneof=Academic Non-Academic"`
	Modules       []string `json:"modules"`
}

// UpdateStaff handles PUT /api/staff/:id.  Sending modules replaces the
// taught modules; omitting them keeps the current ones.
func (h *RegistryHandler) UpdateStaff(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid staff id")
	}
	var req staffUpdateReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.Staff.Update(ctx, id, repository.NewStaff{
		RegNo:         req.RegNo,
		Name:          strings.TrimSpace(req.Name),
		Password:      req.Password,
		Department:    strings.TrimSpace(req.Department),
		Email:         strings.TrimSpace(req.Email),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		StaffType:     req.StaffType,
		Modules:       req.Modules,
	}, h.Cfg.BcryptCost)
	if err != nil {
		return personError(c, "staff member", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "staff updated"})
}

// DeleteStaff handles DELETE /api/staff/:id.
func (h *RegistryHandler) DeleteStaff(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid staff id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Staff.Delete(ctx, id); err != nil {
		return personError(c, "staff member", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// personError maps registry errors of students and staff to responses.
func personError(c echo.Context, what string, err error) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": what + " not found"})
	case errors.Is(err, repository.ErrRegNoExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "registration number already exists"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": what + " has active bookings"})
	}
	c.Logger().Errorf("%s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

type moduleReq struct {
	Code string `json:"module_code" validate:"required,max=20"`
	Name string `json:"name" validate:"max=100"`
}

// CreateModule handles POST /api/modules.  An existing code is returned
// unchanged.
func (h *RegistryHandler) CreateModule(c echo.Context) error {
	var req moduleReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return badRequest(c, "module_code is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	m, err := h.Modules.Ensure(ctx, code, strings.TrimSpace(req.Name))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create module failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// ListModules handles GET /api/modules.
func (h *RegistryHandler) ListModules(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Modules.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list modules"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
