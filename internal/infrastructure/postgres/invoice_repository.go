package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, invoice_number, client_id, module, type, record_ids, additional_lines,
	subtotal, tax, total, tax_rate, currency, status, notes, issue_date, xml_payload, xml_digest,
	sent_to_sap, sap_error, created_by, created_at, updated_at, finalized_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la prefactura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	lines, err := json.Marshal(inv.AdditionalLines)
	if err != nil {
		return fmt.Errorf("marshal additional lines: %w", err)
	}
	query := `
		INSERT INTO invoices (id, invoice_number, client_id, module, type, record_ids, additional_lines,
			subtotal, tax, total, tax_rate, currency, status, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.ClientID, inv.Module, inv.Type, inv.RecordIDs, lines,
		inv.Subtotal, inv.Tax, inv.Total, inv.TaxRate, inv.Currency, inv.Status, inv.Notes,
		inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene la factura; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	var (
		inv                     entity.Invoice
		lines                   []byte
		xmlPayload, xmlDigest   *string
		sapError, notes, number *string
	)
	err := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id).Scan(
		&inv.ID, &number, &inv.ClientID, &inv.Module, &inv.Type, &inv.RecordIDs, &lines,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.TaxRate, &inv.Currency, &inv.Status, &notes,
		&inv.IssueDate, &xmlPayload, &xmlDigest, &inv.SentToSAP, &sapError, &inv.CreatedBy,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.FinalizedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.InvoiceNumber = derefString(number)
	inv.Notes = derefString(notes)
	inv.XMLPayload = derefString(xmlPayload)
	inv.XMLDigest = derefString(xmlDigest)
	inv.SAPError = derefString(sapError)
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &inv.AdditionalLines); err != nil {
			return nil, fmt.Errorf("additional lines de %s: %w", inv.ID, err)
		}
	}
	return &inv, nil
}

// UpdateNumber solo aplica mientras la factura es editable.
func (r *InvoiceRepo) UpdateNumber(ctx context.Context, id, number string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET invoice_number = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ('borrador', 'prefactura')`, id, number)
	if err != nil {
		return fmt.Errorf("update invoice number: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.notEditable(ctx, id)
}

// MarkFinalized pasa de prefactura a facturada guardando número, XML y totales.
func (r *InvoiceRepo) MarkFinalized(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices
		SET invoice_number = $2,
		    status         = 'facturada',
		    issue_date     = $3,
		    xml_payload    = $4,
		    xml_digest     = $5,
		    subtotal       = $6,
		    tax            = $7,
		    total          = $8,
		    finalized_at   = $9,
		    updated_at     = $10
		WHERE id = $1 AND status = 'prefactura'`,
		inv.ID, inv.InvoiceNumber, inv.IssueDate, inv.XMLPayload, inv.XMLDigest,
		inv.Subtotal, inv.Tax, inv.Total, inv.FinalizedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %s ya existe", domain.ErrDuplicate, inv.InvoiceNumber)
		}
		return fmt.Errorf("finalize invoice: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.notEditable(ctx, inv.ID)
}

// UpdateDelivery registra el resultado del envío al ERP.
func (r *InvoiceRepo) UpdateDelivery(ctx context.Context, id string, sent bool, deliveryErr string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET sent_to_sap = $2, sap_error = $3, updated_at = NOW()
		WHERE id = $1`, id, sent, nullIfEmpty(deliveryErr))
	if err != nil {
		return fmt.Errorf("update invoice delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete solo elimina borradores y prefacturas.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND status IN ('borrador', 'prefactura')`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.notEditable(ctx, id)
}

// notEditable distingue entre factura inexistente y ya finalizada tras un UPDATE sin filas.
func (r *InvoiceRepo) notEditable(ctx context.Context, id string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check invoice: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvoiceFinalized
}
