package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/config"
	"github.com/iliyamo/hall-booking/internal/repository"
)

// StudentHandler serves the student registry kept by administrators.
type StudentHandler struct {
	Cfg      config.Config
	Students *repository.StudentRepo
}

// NewStudentHandler panics on a nil repository.
func NewStudentHandler(cfg config.Config, students *repository.StudentRepo) *StudentHandler {
	if students == nil {
		panic("nil dependency passed to NewStudentHandler")
	}
	return &StudentHandler{Cfg: cfg, Students: students}
}

type studentReq struct {
	RegNo            string `json:"reg_no" validate:"required,max=50"`
	Name             string `json:"name" validate:"required,max=100"`
	Password         string `json:"password" validate:"omitempty,min=6"`
	Email            string `json:"email" validate:"omitempty,email"`
	ContactNo        string `json:"contact_no" validate:"max=20"`
	Department       string `json:"department" validate:"max=100"`
	Batch            string `json:"batch" validate:"max=20"`
	Purpose          string `json:"purpose" validate:"max=255"`
	SocietyName      string `json:"society_name" validate:"max=255"`
	LecturerInCharge string `json:"lecturer_in_charge" validate:"max=255"`
}

func (r studentReq) input() repository.StudentInput {
	return repository.StudentInput{
		RegNo:            r.RegNo,
		Name:             strings.TrimSpace(r.Name),
		Password:         r.Password,
		Email:            r.Email,
		ContactNo:        r.ContactNo,
		Department:       r.Department,
		Batch:            r.Batch,
		Purpose:          r.Purpose,
		SocietyName:      r.SocietyName,
		LecturerInCharge: r.LecturerInCharge,
	}
}

// Create handles POST /api/students.  A password is required here and
// optional on update.
func (h *StudentHandler) Create(c echo.Context) error {
	var req studentReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	if req.Password == "" {
		return badRequest(c, "Password is required")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	id, err := h.Students.Create(ctx, req.input(), h.Cfg.BcryptCost)
	if err != nil {
		return personError(c, "student", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"student_id": id})
}

// List handles GET /api/students.  The only accepted type is Student.
func (h *StudentHandler) List(c echo.Context) error {
	if t := strings.TrimSpace(c.QueryParam("type")); t != "" && !strings.EqualFold(t, "student") {
		return badRequest(c, "type must be Student")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Students.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list students"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Search handles GET /api/students/search?query= and returns at most ten
// matches.
func (h *StudentHandler) Search(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Students.Search(ctx, c.QueryParam("query"), 10)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/students/:id.
func (h *StudentHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid student id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	st, err := h.Students.GetByID(ctx, id)
	if err != nil {
		return personError(c, "student", err)
	}
	return c.JSON(http.StatusOK, st)
}

// Update handles PUT /api/students/:id.  An empty password keeps the
// current one.
func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid student id")
	}
	var req studentReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Students.Update(ctx, id, req.input(), h.Cfg.BcryptCost); err != nil {
		return personError(c, "student", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "student updated"})
}

// Delete handles DELETE /api/students/:id.
func (h *StudentHandler) Delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid student id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Students.Delete(ctx, id); err != nil {
		return personError(c, "student", err)
	}
	return c.NoContent(http.StatusNoContent)
}
