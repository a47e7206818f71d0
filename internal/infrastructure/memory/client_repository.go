package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepository)(nil)

// ClientRepository implementación en memoria de repository.ClientRepository.
type ClientRepository struct {
	s *Store
}

func (r *ClientRepository) Create(ctx context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.clients {
		if existing.ID == c.ID || existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.clients[c.ID] = &cp
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// Resolve busca por ID, luego RUC/NIT y por último nombre sin distinguir mayúsculas.
func (r *ClientRepository) Resolve(ctx context.Context, ref string) (*entity.Client, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.clients[ref]; ok {
		cp := *c
		return &cp, nil
	}
	var byName *entity.Client
	for _, c := range r.s.clients {
		if c.TaxID == ref {
			cp := *c
			return &cp, nil
		}
		if byName == nil && strings.EqualFold(c.Name, ref) {
			byName = c
		}
	}
	if byName != nil {
		cp := *byName
		return &cp, nil
	}
	return nil, nil
}

func (r *ClientRepository) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.RLock()
	all := make([]*entity.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		cp := *c
		all = append(all, &cp)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []*entity.Client{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
