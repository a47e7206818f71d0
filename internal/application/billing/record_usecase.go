package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/billing"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// RecordUseCase consulta, selección y transiciones manuales de registros.
type RecordUseCase struct {
	records repository.RecordRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(records repository.RecordRepository) *RecordUseCase {
	return &RecordUseCase{records: records}
}

// Select aplica SelectAll sobre los candidatos partiendo de la selección vigente.
// La selección vigente no se revalida: su primer elemento sigue siendo el ancla.
func (uc *RecordUseCase) Select(ctx context.Context, in dto.SelectionRequest) (*dto.SelectionResponse, error) {
	if len(in.CandidateIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}
	current, err := uc.records.ListByIDs(ctx, in.CurrentIDs)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.records.ListByIDs(ctx, in.CandidateIDs)
	if err != nil {
		return nil, err
	}
	accepted := billing.SelectAll(candidates, current)

	byID := make(map[string]*entity.Record, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	selection := make([]*entity.Record, 0, len(current)+len(accepted))
	selection = append(selection, current...)
	for _, id := range accepted {
		selection = append(selection, byID[id])
	}

	ids := make([]string, len(selection))
	for i, r := range selection {
		ids[i] = r.ID
	}
	s := billing.Summarize(selection)
	return &dto.SelectionResponse{
		Accepted:  accepted,
		Selection: ids,
		Summary: dto.SelectionSummary{
			Count:    s.Count,
			ClientID: s.ClientID,
			Module:   s.Module,
			Type:     s.Type,
			Subtotal: s.Subtotal,
		},
	}, nil
}

// List lista registros con filtros.
func (uc *RecordUseCase) List(ctx context.Context, q dto.RecordListQuery) ([]*dto.RecordResponse, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.records.List(ctx, entity.RecordFilter{
		Module:   q.Module,
		Status:   q.Status,
		ClientID: q.ClientID,
		Limit:    limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRecordResponse(r))
	}
	return out, nil
}

// Get devuelve un registro por ID.
func (uc *RecordUseCase) Get(ctx context.Context, id string) (*dto.RecordResponse, error) {
	r, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toRecordResponse(r), nil
}

// Complete marca el registro como completado (paso de cierre operativo del módulo).
func (uc *RecordUseCase) Complete(ctx context.Context, id string) (*dto.RecordResponse, error) {
	if err := uc.records.Complete(ctx, id); err != nil {
		return nil, fmt.Errorf("completar registro %s: %w", id, err)
	}
	return uc.Get(ctx, id)
}

// Delete elimina un registro que no pertenezca a ninguna factura.
func (uc *RecordUseCase) Delete(ctx context.Context, id string) error {
	return uc.records.Delete(ctx, id)
}
