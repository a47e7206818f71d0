package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ServiceCatalogRepository = (*ServiceCatalogRepository)(nil)

// ServiceCatalogRepository implementación en memoria del catálogo.
type ServiceCatalogRepository struct {
	s *Store
}

func (r *ServiceCatalogRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ServiceCatalogEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.ServiceCatalogEntry, len(ids))
	for _, id := range ids {
		if e, ok := r.s.catalog[id]; ok {
			c := *e
			out[id] = &c
		}
	}
	return out, nil
}

func (r *ServiceCatalogRepository) List(ctx context.Context) ([]*entity.ServiceCatalogEntry, error) {
	r.s.mu.RLock()
	out := make([]*entity.ServiceCatalogEntry, 0, len(r.s.catalog))
	for _, e := range r.s.catalog {
		c := *e
		out = append(out, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SAPCode < out[j].SAPCode })
	return out, nil
}
