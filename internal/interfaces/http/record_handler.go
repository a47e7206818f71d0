package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
)

// RecordHandler maneja las peticiones HTTP de registros facturables.
type RecordHandler struct {
	uc *billing.RecordUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(uc *billing.RecordUseCase) *RecordHandler {
	return &RecordHandler{uc: uc}
}

// Select aplica la regla de selección sobre los candidatos.
// POST /api/records/selection
func (h *RecordHandler) Select(c *fiber.Ctx) error {
	var in dto.SelectionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Select(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/records
func (h *RecordHandler) List(c *fiber.Ctx) error {
	var q dto.RecordListQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	if err := validateStruct(&q); err != nil {
		return writeError(c, err)
	}
	if q.Limit <= 0 {
		q.Limit = dto.DefaultLimit
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(list, q.Limit, q.Offset))
}

// GetByID GET /api/records/:id
func (h *RecordHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rec)
}

// Complete POST /api/records/:id/complete
func (h *RecordHandler) Complete(c *fiber.Ctx) error {
	rec, err := h.uc.Complete(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rec)
}

// Delete DELETE /api/records/:id
func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
