package memory

import (
	"context"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)

// InvoiceRepository implementación en memoria de repository.InvoiceRepository.
type InvoiceRepository struct {
	s *Store
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.invoices[inv.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepository) UpdateNumber(ctx context.Context, id, number string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !inv.IsDraft() {
		return domain.ErrInvoiceFinalized
	}
	inv.InvoiceNumber = number
	inv.UpdatedAt = time.Now()
	return nil
}

// MarkFinalized solo reemplaza la factura si sigue en prefactura.
func (r *InvoiceRepository) MarkFinalized(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != entity.InvoiceStatusPrefactura {
		return domain.ErrInvoiceFinalized
	}
	next := cloneInvoice(inv)
	next.Status = entity.InvoiceStatusFacturada
	r.s.invoices[inv.ID] = next
	return nil
}

func (r *InvoiceRepository) UpdateDelivery(ctx context.Context, id string, sent bool, deliveryErr string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.SentToSAP = sent
	inv.SAPError = deliveryErr
	inv.UpdatedAt = time.Now()
	return nil
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return domain.ErrNotFound
	}
	if !inv.IsDraft() {
		return domain.ErrInvoiceFinalized
	}
	delete(r.s.invoices, id)
	return nil
}
