package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
)

// InvoiceHandler maneja prefacturas y facturas (protegido).
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	finalize *billing.FinalizeInvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, finalize *billing.FinalizeInvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, finalize: finalize}
}

// Draft calcula la vista previa sin persistir. Una selección vacía o mezclada responde 400.
// POST /api/invoices/draft
func (h *InvoiceHandler) Draft(c *fiber.Ctx) error {
	var in dto.DraftInvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.PreviewDraft(c.Context(), GetUserID(c), in)
	if err != nil {
		if errors.Is(err, domain.ErrMixedClient) || errors.Is(err, domain.ErrMixedModule) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MIXED_SELECTION", Message: err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create guarda la prefactura y reclama los registros.
// POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.DraftInvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SavePrefactura(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateNumber PATCH /api/invoices/:id/number
func (h *InvoiceHandler) UpdateNumber(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceNumberRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateNumber(c.Context(), c.Params("id"), in.InvoiceNumber)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Finalize bloquea la factura y genera el XML. Los fallos de entrega a SAP vuelven en warnings.
// POST /api/invoices/:id/finalize
func (h *InvoiceHandler) Finalize(c *fiber.Ctx) error {
	var in dto.FinalizeInvoiceRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	input := billing.FinalizeInput{InvoiceNumber: in.InvoiceNumber, SendToSAP: in.SendToSAP}
	if in.IssueDate != "" {
		d, err := time.Parse("2006-01-02", in.IssueDate)
		if err != nil {
			return writeError(c, domain.ErrInvalidInput)
		}
		input.IssueDate = &d
	}
	out, err := h.finalize.Finalize(c.Context(), c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// XML descarga el XML generado.
// GET /api/invoices/:id/xml
func (h *InvoiceHandler) XML(c *fiber.Ctx) error {
	payload, err := h.uc.XML(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.Send(payload)
}

// Delete elimina la prefactura y libera sus registros.
// DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
