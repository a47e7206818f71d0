package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes y catálogo de servicios.
type ClientUseCase struct {
	repo    repository.ClientRepository
	catalog repository.ServiceCatalogRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, catalog repository.ServiceCatalogRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo, catalog: catalog}
}

// Create crea un nuevo cliente. El RUC/NIT es único.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	name, taxID := strings.TrimSpace(in.Name), strings.TrimSpace(in.TaxID)
	if name == "" || taxID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.Resolve(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.TaxID == taxID {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     taxID,
		SAPCode:   strings.TrimSpace(in.SAPCode),
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List lista clientes.
func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ClientResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Services lista el catálogo de servicios activos.
func (uc *ClientUseCase) Services(ctx context.Context) ([]*dto.ServiceCatalogResponse, error) {
	list, err := uc.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceCatalogResponse, 0, len(list))
	for _, s := range list {
		if !s.Active {
			continue
		}
		out = append(out, &dto.ServiceCatalogResponse{ID: s.ID, SAPCode: s.SAPCode, Description: s.Description, Module: s.Module})
	}
	return out, nil
}
