package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.RecordRepository = (*RecordRepo)(nil)

const recordColumns = `id, module, type, client_id, status, invoice_id, payload, dedup_key, created_at, updated_at`

// RecordRepo implementación de RecordRepository (usable con pool o tx).
type RecordRepo struct {
	q Querier
}

// NewRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecordRepository(q Querier) *RecordRepo {
	return &RecordRepo{q: q}
}

// CreateIfAbsent inserta salvo conflicto en dedup_key.
func (r *RecordRepo) CreateIfAbsent(ctx context.Context, rec *entity.Record) (bool, error) {
	payload, err := entity.MarshalPayload(rec.Payload)
	if err != nil {
		return false, err
	}
	query := `
		INSERT INTO records (id, module, type, client_id, status, invoice_id, payload, dedup_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (dedup_key) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.Module, rec.Type, rec.ClientID, rec.Status, nullIfEmpty(rec.InvoiceID),
		payload, rec.DedupKey, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert record: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID obtiene un registro; nil si no existe.
func (r *RecordRepo) GetByID(ctx context.Context, id string) (*entity.Record, error) {
	row := r.q.QueryRow(ctx, `SELECT `+recordColumns+` FROM records WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// ListByIDs respeta el orden de ids.
func (r *RecordRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Record, error) {
	if len(ids) == 0 {
		return []*entity.Record{}, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list records by ids: %w", err)
	}
	found, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Record, len(found))
	for _, rec := range found {
		byID[rec.ID] = rec
	}
	out := make([]*entity.Record, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, rec)
		}
	}
	return out, nil
}

// List filtra por módulo, estado y cliente ordenando por fecha de creación.
func (r *RecordRepo) List(ctx context.Context, f entity.RecordFilter) ([]*entity.Record, error) {
	var (
		where []string
		args  []any
	)
	add := func(col, val string) {
		if val == "" {
			return
		}
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	add("module", f.Module)
	add("status", f.Status)
	add("client_id", f.ClientID)

	query := `SELECT ` + recordColumns + ` FROM records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at, id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return collectRecords(rows)
}

// Complete pendiente -> completado.
func (r *RecordRepo) Complete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE records SET status = 'completado', updated_at = NOW()
		WHERE id = $1 AND status = 'pendiente'`, id)
	if err != nil {
		return fmt.Errorf("complete record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: el registro está %s", domain.ErrConflict, cur.Status)
}

// Claim compare-and-swap: solo reclama si invoice_id es nulo y el estado es completado.
func (r *RecordRepo) Claim(ctx context.Context, id, invoiceID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE records SET invoice_id = $2, status = 'prefacturado', updated_at = NOW()
		WHERE id = $1 AND invoice_id IS NULL AND status = 'completado'`, id, invoiceID)
	if err != nil {
		return fmt.Errorf("claim record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	switch {
	case cur == nil:
		return domain.ErrNotFound
	case cur.InvoiceID != "":
		return domain.ErrRecordAlreadyClaimed
	default:
		return domain.ErrRecordNotSelectable
	}
}

// Release devuelve a completado los registros prefacturados de la factura.
func (r *RecordRepo) Release(ctx context.Context, invoiceID string) (int, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE records SET invoice_id = NULL, status = 'completado', updated_at = NOW()
		WHERE invoice_id = $1 AND status = 'prefacturado'`, invoiceID)
	if err != nil {
		return 0, fmt.Errorf("release records: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ReleaseOne no falla si el registro ya no pertenece a la factura.
func (r *RecordRepo) ReleaseOne(ctx context.Context, id, invoiceID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE records SET invoice_id = NULL, status = 'completado', updated_at = NOW()
		WHERE id = $1 AND invoice_id = $2 AND status = 'prefacturado'`, id, invoiceID)
	if err != nil {
		return fmt.Errorf("release record: %w", err)
	}
	return nil
}

func (r *RecordRepo) MarkInvoiced(ctx context.Context, id, invoiceID string) error {
	return r.transition(ctx, id, invoiceID, entity.RecordStatusPrefacturado, entity.RecordStatusFacturado)
}

func (r *RecordRepo) RevertInvoiced(ctx context.Context, id, invoiceID string) error {
	return r.transition(ctx, id, invoiceID, entity.RecordStatusFacturado, entity.RecordStatusPrefacturado)
}

func (r *RecordRepo) transition(ctx context.Context, id, invoiceID, from, to string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE records SET status = $4, updated_at = NOW()
		WHERE id = $1 AND invoice_id = $2 AND status = $3`, id, invoiceID, from, to)
	if err != nil {
		return fmt.Errorf("update record status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: registro %s no está %s en la factura %s", domain.ErrConflict, id, from, invoiceID)
	}
	return nil
}

// Delete solo elimina registros sin factura.
func (r *RecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM records WHERE id = $1 AND invoice_id IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur == nil {
		return domain.ErrNotFound
	}
	return domain.ErrRecordLocked
}

func scanRecord(row pgxScanner) (*entity.Record, error) {
	var (
		rec       entity.Record
		invoiceID *string
		payload   []byte
	)
	err := row.Scan(&rec.ID, &rec.Module, &rec.Type, &rec.ClientID, &rec.Status, &invoiceID,
		&payload, &rec.DedupKey, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.InvoiceID = derefString(invoiceID)
	if len(payload) > 0 {
		p, err := entity.UnmarshalPayload(rec.Module, payload)
		if err != nil {
			return nil, fmt.Errorf("payload del registro %s: %w", rec.ID, err)
		}
		rec.Payload = p
	}
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]*entity.Record, error) {
	defer rows.Close()
	list := []*entity.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}
