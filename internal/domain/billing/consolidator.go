package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DraftMeta datos de cabecera que acompañan la consolidación.
type DraftMeta struct {
	InvoiceNumber string
	Notes         string
	Currency      string
	TaxRate       decimal.Decimal
	CreatedBy     string
	Now           time.Time
}

// Totals resultado monetario de una consolidación.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals aplica subtotal = Σ precio + Σ adicionales, total = round(subtotal × (1+tasa), 2)
// y tax = total − subtotal, de modo que total == subtotal + tax siempre.
func ComputeTotals(records []*entity.Record, extra []entity.AdditionalLine, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, r := range records {
		subtotal = subtotal.Add(r.Price())
	}
	for _, l := range extra {
		subtotal = subtotal.Add(l.Amount)
	}
	subtotal = subtotal.Round(2)
	total := subtotal.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      total.Sub(subtotal),
		Total:    total,
	}
}

// ValidateSelection es la verificación defensiva de las reglas de CanSelect sobre una
// selección completa: no vacía, registros completados y libres, mismo cliente, módulo y tipo.
func ValidateSelection(selection []*entity.Record) error {
	if len(selection) == 0 {
		return domain.ErrEmptySelection
	}
	anchor := selection[0]
	seen := make(map[string]struct{}, len(selection))
	for _, r := range selection {
		if r == nil {
			return domain.ErrInvalidInput
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: registro %s repetido", domain.ErrInvalidInput, r.ID)
		}
		seen[r.ID] = struct{}{}
		if r.IsClaimed() {
			return fmt.Errorf("registro %s: %w", r.ID, domain.ErrRecordAlreadyClaimed)
		}
		if r.Status != entity.RecordStatusCompletado {
			return fmt.Errorf("registro %s: %w", r.ID, domain.ErrRecordNotSelectable)
		}
		if r.ClientID != anchor.ClientID {
			return fmt.Errorf("registro %s: %w", r.ID, domain.ErrMixedClient)
		}
		if r.Module != anchor.Module || r.Type != anchor.Type {
			return fmt.Errorf("registro %s: %w", r.ID, domain.ErrMixedModule)
		}
	}
	return nil
}

// ValidateLines comprueba las líneas adicionales ingresadas manualmente.
func ValidateLines(extra []entity.AdditionalLine) error {
	for i, l := range extra {
		if l.Description == "" && l.ServiceID == "" {
			return fmt.Errorf("%w: línea adicional %d sin servicio ni descripción", domain.ErrInvalidInput, i+1)
		}
		if l.Amount.IsNegative() {
			return fmt.Errorf("%w: línea adicional %d con monto negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// Consolidate construye la prefactura en estado borrador a partir de una selección validada.
// No persiste nada ni modifica los registros: el reclamo ocurre en un paso posterior explícito.
func Consolidate(selection []*entity.Record, extra []entity.AdditionalLine, meta DraftMeta) (*entity.Invoice, error) {
	if err := ValidateSelection(selection); err != nil {
		return nil, err
	}
	if err := ValidateLines(extra); err != nil {
		return nil, err
	}
	now := meta.Now
	if now.IsZero() {
		now = time.Now()
	}
	totals := ComputeTotals(selection, extra, meta.TaxRate)
	ids := make([]string, len(selection))
	for i, r := range selection {
		ids[i] = r.ID
	}
	lines := make([]entity.AdditionalLine, len(extra))
	copy(lines, extra)
	anchor := selection[0]
	return &entity.Invoice{
		ID:              uuid.New().String(),
		InvoiceNumber:   meta.InvoiceNumber,
		ClientID:        anchor.ClientID,
		Module:          anchor.Module,
		Type:            anchor.Type,
		RecordIDs:       ids,
		AdditionalLines: lines,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		TaxRate:         meta.TaxRate,
		Currency:        meta.Currency,
		Status:          entity.InvoiceStatusBorrador,
		Notes:           meta.Notes,
		CreatedBy:       meta.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
