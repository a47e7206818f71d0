package repository

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// Resolve busca por ID, RUC/NIT o nombre (sin distinguir mayúsculas). nil si no existe.
	Resolve(ctx context.Context, ref string) (*entity.Client, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Client, error)
}
