package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para prefacturas y facturas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// UpdateNumber cambia el número solo si la factura sigue en prefactura.
	// Devuelve domain.ErrInvoiceFinalized si ya no es editable.
	UpdateNumber(ctx context.Context, id, number string) error
	// MarkFinalized es una actualización condicional: solo pasa de prefactura a facturada.
	// Devuelve domain.ErrInvoiceFinalized si la factura ya no está en prefactura.
	MarkFinalized(ctx context.Context, invoice *entity.Invoice) error
	// UpdateDelivery registra el resultado (best-effort) de la entrega a SAP.
	UpdateDelivery(ctx context.Context, id string, sent bool, deliveryErr string) error
	// Delete elimina una factura que siga en borrador o prefactura.
	Delete(ctx context.Context, id string) error
}
