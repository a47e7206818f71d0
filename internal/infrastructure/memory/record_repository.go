package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepository)(nil)

// RecordRepository implementación en memoria de repository.RecordRepository.
type RecordRepository struct {
	s *Store
}

// CreateIfAbsent inserta salvo que ya exista el dedup_key.
func (r *RecordRepository) CreateIfAbsent(ctx context.Context, rec *entity.Record) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.DedupKey != "" {
		if _, exists := r.s.dedup[rec.DedupKey]; exists {
			return false, nil
		}
	}
	if _, exists := r.s.records[rec.ID]; exists {
		return false, domain.ErrDuplicate
	}
	r.s.records[rec.ID] = cloneRecord(rec)
	if rec.DedupKey != "" {
		r.s.dedup[rec.DedupKey] = rec.ID
	}
	return true, nil
}

func (r *RecordRepository) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.records[id]
	if !ok {
		return nil, nil
	}
	return cloneRecord(rec), nil
}

func (r *RecordRepository) ListByIDs(ctx context.Context, ids []string) ([]*entity.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Record, 0, len(ids))
	for _, id := range ids {
		if rec, ok := r.s.records[id]; ok {
			out = append(out, cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *RecordRepository) List(ctx context.Context, f entity.RecordFilter) ([]*entity.Record, error) {
	r.s.mu.RLock()
	all := make([]*entity.Record, 0, len(r.s.records))
	for _, rec := range r.s.records {
		if f.Module != "" && rec.Module != f.Module {
			continue
		}
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.ClientID != "" && rec.ClientID != f.ClientID {
			continue
		}
		all = append(all, cloneRecord(rec))
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	if f.Offset >= len(all) {
		return []*entity.Record{}, nil
	}
	all = all[f.Offset:]
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

func (r *RecordRepository) Complete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status != entity.RecordStatusPendiente {
		return fmt.Errorf("%w: el registro está %s", domain.ErrConflict, rec.Status)
	}
	rec.Status = entity.RecordStatusCompletado
	rec.UpdatedAt = time.Now()
	return nil
}

// Claim compare-and-swap: invoice_id nulo y estado completado.
func (r *RecordRepository) Claim(ctx context.Context, id, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.InvoiceID != "" {
		return domain.ErrRecordAlreadyClaimed
	}
	if rec.Status != entity.RecordStatusCompletado {
		return domain.ErrRecordNotSelectable
	}
	rec.InvoiceID = invoiceID
	rec.Status = entity.RecordStatusPrefacturado
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *RecordRepository) Release(ctx context.Context, invoiceID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, rec := range r.s.records {
		if rec.InvoiceID == invoiceID && rec.Status == entity.RecordStatusPrefacturado {
			rec.InvoiceID = ""
			rec.Status = entity.RecordStatusCompletado
			rec.UpdatedAt = time.Now()
			n++
		}
	}
	return n, nil
}

func (r *RecordRepository) ReleaseOne(ctx context.Context, id, invoiceID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok || rec.InvoiceID != invoiceID || rec.Status != entity.RecordStatusPrefacturado {
		return nil
	}
	rec.InvoiceID = ""
	rec.Status = entity.RecordStatusCompletado
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *RecordRepository) MarkInvoiced(ctx context.Context, id, invoiceID string) error {
	return r.transition(id, invoiceID, entity.RecordStatusPrefacturado, entity.RecordStatusFacturado)
}

func (r *RecordRepository) RevertInvoiced(ctx context.Context, id, invoiceID string) error {
	return r.transition(id, invoiceID, entity.RecordStatusFacturado, entity.RecordStatusPrefacturado)
}

func (r *RecordRepository) transition(id, invoiceID, from, to string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.InvoiceID != invoiceID || rec.Status != from {
		return fmt.Errorf("%w: registro %s no está %s en la factura %s", domain.ErrConflict, id, from, invoiceID)
	}
	rec.Status = to
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.InvoiceID != "" {
		return domain.ErrRecordLocked
	}
	delete(r.s.records, id)
	if rec.DedupKey != "" {
		delete(r.s.dedup, rec.DedupKey)
	}
	return nil
}
