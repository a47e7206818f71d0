package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/infrastructure/spreadsheet"
)

// IngestionHandler recibe cargas masivas y expone el estado de los jobs.
type IngestionHandler struct {
	uc *ingestion.UseCase
}

// NewIngestionHandler construye el handler.
func NewIngestionHandler(uc *ingestion.UseCase) *IngestionHandler {
	return &IngestionHandler{uc: uc}
}

// Submit POST /api/ingestion/jobs
func (h *IngestionHandler) Submit(c *fiber.Ctx) error {
	var in dto.IngestionSubmitRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	return h.submit(c, in)
}

// Upload acepta un archivo XLSX o CSV en el campo "file" y el módulo en "module".
// POST /api/ingestion/jobs/upload
func (h *IngestionHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fmt.Errorf("%w: archivo requerido", domain.ErrInvalidInput))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	rows, err := spreadsheet.Parse(fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	// FormValue apunta al buffer de fasthttp; el módulo sobrevive al request
	in := dto.IngestionSubmitRequest{Module: utils.CopyString(c.FormValue("module")), Rows: rows}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	return h.submit(c, in)
}

func (h *IngestionHandler) submit(c *fiber.Ctx, in dto.IngestionSubmitRequest) error {
	out, err := h.uc.Submit(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(out)
}

// Status GET /api/ingestion/jobs/:id
func (h *IngestionHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.GetStatus(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
