package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/jhoicas/logistica-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RecordUC   *billing.RecordUseCase
	InvoiceUC  *billing.InvoiceUseCase
	FinalizeUC *billing.FinalizeInvoiceUseCase
	ClientUC   *billing.ClientUseCase
	IngestUC   *ingestion.UseCase
	JWTSecret  string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	billers := RequireRole(jwt.RoleAdmin, jwt.RoleFacturador)

	// Registros facturables
	records := protected.Group("/records")
	recordHandler := NewRecordHandler(deps.RecordUC)
	records.Post("/selection", recordHandler.Select)
	records.Get("/", recordHandler.List)
	records.Get("/:id", recordHandler.GetByID)
	records.Post("/:id/complete", recordHandler.Complete)
	records.Delete("/:id", recordHandler.Delete)

	// Prefacturas y facturas
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.FinalizeUC)
	invoices.Post("/draft", invoiceHandler.Draft)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/number", invoiceHandler.UpdateNumber)
	invoices.Post("/:id/finalize", billers, invoiceHandler.Finalize)
	invoices.Get("/:id/xml", invoiceHandler.XML)
	invoices.Delete("/:id", billers, invoiceHandler.Delete)

	// Ingesta masiva
	jobs := protected.Group("/ingestion/jobs")
	ingestionHandler := NewIngestionHandler(deps.IngestUC)
	jobs.Post("/", ingestionHandler.Submit)
	jobs.Post("/upload", ingestionHandler.Upload)
	jobs.Get("/:id", ingestionHandler.Status)

	// Clientes y catálogo
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	protected.Get("/services", clientHandler.Services)
}
