package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// RecordRepository define el puerto de persistencia para registros facturables.
// Todas las transiciones de estado son actualizaciones condicionales (compare-and-swap).
type RecordRepository interface {
	// CreateIfAbsent inserta el registro salvo que exista otro con el mismo DedupKey.
	// created=false indica duplicado.
	CreateIfAbsent(ctx context.Context, record *entity.Record) (created bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Record, error)
	// ListByIDs devuelve los registros existentes en el orden de ids; los ausentes se omiten.
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Record, error)
	List(ctx context.Context, filter entity.RecordFilter) ([]*entity.Record, error)
	// Complete pasa de pendiente a completado.
	Complete(ctx context.Context, id string) error
	// Claim asigna invoiceID y estado prefacturado solo si invoice_id es nulo y el estado es completado.
	// Devuelve domain.ErrRecordAlreadyClaimed si perdió la carrera.
	Claim(ctx context.Context, id, invoiceID string) error
	// Release devuelve a completado todos los registros prefacturados de la factura.
	Release(ctx context.Context, invoiceID string) (int, error)
	// ReleaseOne revierte un único reclamo (compensación).
	ReleaseOne(ctx context.Context, id, invoiceID string) error
	// MarkInvoiced pasa de prefacturado a facturado conservando invoiceID.
	MarkInvoiced(ctx context.Context, id, invoiceID string) error
	// RevertInvoiced deshace MarkInvoiced (compensación).
	RevertInvoiced(ctx context.Context, id, invoiceID string) error
	// Delete elimina un registro sin factura; domain.ErrRecordLocked en otro caso.
	Delete(ctx context.Context, id string) error
}
