package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
)

// ClientHandler maestro de clientes y catálogo de servicios.
type ClientHandler struct {
	uc *billing.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *billing.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/clients?limit=&offset=
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	if err := validateStruct(&page); err != nil {
		return writeError(c, err)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(list, page.Limit, page.Offset))
}

// Services GET /api/services
func (h *ClientHandler) Services(c *fiber.Ctx) error {
	list, err := h.uc.Services(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
