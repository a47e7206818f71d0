package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// ServiceCatalogRepository catálogo de servicios para líneas adicionales.
type ServiceCatalogRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.ServiceCatalogEntry, error)
	List(ctx context.Context) ([]*entity.ServiceCatalogEntry, error)
}
