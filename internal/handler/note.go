package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hall-booking/internal/model"
	"github.com/iliyamo/hall-booking/internal/repository"
)

// NoteHandler serves special notes.
type NoteHandler struct {
	Notes *repository.NoteRepo
}

// NewNoteHandler panics on a nil repository.
func NewNoteHandler(notes *repository.NoteRepo) *NoteHandler {
	if notes == nil {
		panic("nil dependency passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes}
}

type noteReq struct {
	Content string `json:"content" validate:"required"`
	ForWhom string `json:"for_whom" validate:"required,max=64"`
}

func (r noteReq) toModel(id uint64) (*model.Note, string) {
	n := &model.Note{ID: id, Content: strings.TrimSpace(r.Content), ForWhom: strings.TrimSpace(r.ForWhom)}
	if n.Content == "" || n.ForWhom == "" {
		return nil, "Missing content or for_whom"
	}
	return n, ""
}

// Public handles GET /api/special-notes/all, the notes addressed to
// everyone.
func (h *NoteHandler) Public(c echo.Context) error {
	return h.list(c, model.NoteAudienceAll)
}

// List handles GET /api/special-notes.
func (h *NoteHandler) List(c echo.Context) error {
	return h.list(c, "")
}

func (h *NoteHandler) list(c echo.Context, audience string) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	items, err := h.Notes.List(ctx, audience)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch notes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/special-notes/:id.
func (h *NoteHandler) Get(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid note id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	n, err := h.Notes.GetByID(ctx, id)
	if err != nil {
		return noteError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// Create handles POST /api/special-notes.
func (h *NoteHandler) Create(c echo.Context) error {
	var req noteReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	n, msg := req.toModel(0)
	if msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Notes.Create(ctx, n); err != nil {
		return noteError(c, err)
	}
	return c.JSON(http.StatusCreated, n)
}

// Update handles PUT /api/special-notes/:id.
func (h *NoteHandler) Update(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid note id")
	}
	var req noteReq
	if msg := bindAndValidate(c, &req); msg != "" {
		return badRequest(c, msg)
	}
	n, msg := req.toModel(id)
	if msg != "" {
		return badRequest(c, msg)
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Notes.Update(ctx, n); err != nil {
		return noteError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// Delete handles DELETE /api/special-notes/:id.
func (h *NoteHandler) Delete(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid note id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Notes.Delete(ctx, id); err != nil {
		return noteError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func noteError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNoteNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	}
	c.Logger().Errorf("note: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}
