package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, name, tax_id, sap_code, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, nullIfEmpty(c.TaxID), nullIfEmpty(c.SAPCode), nullIfEmpty(c.Email), nullIfEmpty(c.Phone),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.getOne(ctx, `SELECT id, name, tax_id, sap_code, email, phone, created_at, updated_at FROM clients WHERE id = $1`, id)
}

// Resolve busca por ID, luego RUC/NIT y por último nombre sin distinguir mayúsculas.
func (r *ClientRepo) Resolve(ctx context.Context, ref string) (*entity.Client, error) {
	query := `
		SELECT id, name, tax_id, sap_code, email, phone, created_at, updated_at
		FROM clients
		WHERE id = $1 OR tax_id = $1 OR LOWER(name) = LOWER(TRIM($1))
		ORDER BY CASE WHEN id = $1 THEN 0 WHEN tax_id = $1 THEN 1 ELSE 2 END, name
		LIMIT 1`
	return r.getOne(ctx, query, ref)
}

// List lista clientes por nombre con paginación.
func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	query := `
		SELECT id, name, tax_id, sap_code, email, phone, created_at, updated_at
		FROM clients ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *ClientRepo) getOne(ctx context.Context, query string, arg string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgxScanner) (*entity.Client, error) {
	var (
		c                            entity.Client
		taxID, sapCode, email, phone *string
	)
	if err := row.Scan(&c.ID, &c.Name, &taxID, &sapCode, &email, &phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.TaxID = derefString(taxID)
	c.SAPCode = derefString(sapCode)
	c.Email = derefString(email)
	c.Phone = derefString(phone)
	return &c, nil
}
