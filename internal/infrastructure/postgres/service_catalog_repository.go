package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ServiceCatalogRepository = (*ServiceCatalogRepo)(nil)

// ServiceCatalogRepo catálogo de servicios adicionales.
type ServiceCatalogRepo struct {
	q Querier
}

// NewServiceCatalogRepository construye el adaptador.
func NewServiceCatalogRepository(q Querier) *ServiceCatalogRepo {
	return &ServiceCatalogRepo{q: q}
}

func (r *ServiceCatalogRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ServiceCatalogEntry, error) {
	out := make(map[string]*entity.ServiceCatalogEntry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.query(ctx, `
		SELECT id, sap_code, description, COALESCE(module, ''), active
		FROM service_catalog WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range list {
		out[e.ID] = e
	}
	return out, nil
}

func (r *ServiceCatalogRepo) List(ctx context.Context) ([]*entity.ServiceCatalogEntry, error) {
	return r.query(ctx, `
		SELECT id, sap_code, description, COALESCE(module, ''), active
		FROM service_catalog ORDER BY sap_code`)
}

func (r *ServiceCatalogRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.ServiceCatalogEntry, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query service catalog: %w", err)
	}
	defer rows.Close()
	list := []*entity.ServiceCatalogEntry{}
	for rows.Next() {
		var e entity.ServiceCatalogEntry
		if err := rows.Scan(&e.ID, &e.SAPCode, &e.Description, &e.Module, &e.Active); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
