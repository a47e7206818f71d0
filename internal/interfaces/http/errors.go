package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
)

var validate = validator.New()

// bindJSON parsea el body y valida las etiquetas `validate` del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: cuerpo inválido", domain.ErrInvalidInput)
	}
	return validateStruct(out)
}

func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// writeError traduce errores de dominio a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var unresolved *domain.UnresolvedClientsError
	if errors.As(err, &unresolved) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "UNRESOLVED_CLIENTS", Message: err.Error(), Rows: unresolved.Rows,
		})
	}
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptySelection):
		return fiber.StatusBadRequest, "EMPTY_SELECTION"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrRecordAlreadyClaimed):
		return fiber.StatusConflict, "RECORD_ALREADY_CLAIMED"
	case errors.Is(err, domain.ErrInvoiceFinalized):
		return fiber.StatusConflict, "INVOICE_FINALIZED"
	case errors.Is(err, domain.ErrMixedClient), errors.Is(err, domain.ErrMixedModule):
		return fiber.StatusConflict, "MIXED_SELECTION"
	case errors.Is(err, domain.ErrRecordLocked):
		return fiber.StatusConflict, "RECORD_LOCKED"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNoBillableLines):
		return fiber.StatusUnprocessableEntity, "NO_BILLABLE_LINES"
	case errors.Is(err, domain.ErrInvalidNumberFormat):
		return fiber.StatusUnprocessableEntity, "INVALID_NUMBER_FORMAT"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}
