package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/billing"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// InvoiceUseCase consolidación en prefactura y mantenimiento de borradores.
type InvoiceUseCase struct {
	txRunner TxRunner
	records  repository.RecordRepository
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	settings Settings
	log      zerolog.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner TxRunner,
	records repository.RecordRepository,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	settings Settings,
	log zerolog.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner: txRunner,
		records:  records,
		invoices: invoices,
		clients:  clients,
		settings: settings,
		log:      log,
		now:      time.Now,
	}
}

// consolidate carga la selección en el orden pedido y construye el borrador.
func (uc *InvoiceUseCase) consolidate(ctx context.Context, userID string, in dto.DraftInvoiceRequest) (*entity.Invoice, error) {
	if len(in.RecordIDs) == 0 {
		return nil, domain.ErrEmptySelection
	}
	selection, err := uc.records.ListByIDs(ctx, in.RecordIDs)
	if err != nil {
		return nil, err
	}
	if len(selection) != len(in.RecordIDs) {
		return nil, fmt.Errorf("%w: uno o más registros no existen", domain.ErrNotFound)
	}
	return billing.Consolidate(selection, toAdditionalLines(in.AdditionalLines), billing.DraftMeta{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Notes:         in.Notes,
		Currency:      uc.settings.Currency,
		TaxRate:       uc.settings.TaxRate,
		CreatedBy:     userID,
		Now:           uc.now(),
	})
}

// PreviewDraft devuelve la prefactura en borrador sin persistir ni tocar los registros.
func (uc *InvoiceUseCase) PreviewDraft(ctx context.Context, userID string, in dto.DraftInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.consolidate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// SavePrefactura persiste la prefactura y reclama cada registro con compare-and-swap.
// Si algún reclamo pierde la carrera se liberan los ya reclamados y se elimina la factura.
func (uc *InvoiceUseCase) SavePrefactura(ctx context.Context, userID string, in dto.DraftInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.consolidate(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatusPrefactura

	err = uc.txRunner.RunBilling(ctx, func(records repository.RecordRepository, invoices repository.InvoiceRepository) error {
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		claimed := make([]string, 0, len(inv.RecordIDs))
		for _, id := range inv.RecordIDs {
			if err := records.Claim(ctx, id, inv.ID); err != nil {
				uc.compensateClaims(ctx, records, invoices, inv.ID, claimed)
				return fmt.Errorf("registro %s: %w", id, err)
			}
			claimed = append(claimed, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Int("records", len(inv.RecordIDs)).
		Str("total", inv.Total.StringFixed(2)).Msg("prefactura guardada")
	return toInvoiceResponse(inv), nil
}

func (uc *InvoiceUseCase) compensateClaims(ctx context.Context, records repository.RecordRepository, invoices repository.InvoiceRepository, invoiceID string, claimed []string) {
	for _, id := range claimed {
		if err := records.ReleaseOne(ctx, id, invoiceID); err != nil {
			uc.log.Error().Err(err).Str("invoice_id", invoiceID).Str("record_id", id).Msg("no se pudo liberar el registro")
		}
	}
	if err := invoices.Delete(ctx, invoiceID); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("no se pudo eliminar la prefactura incompleta")
	}
}

// Get devuelve una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// XML devuelve el documento generado al finalizar.
func (uc *InvoiceUseCase) XML(ctx context.Context, id string) ([]byte, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.XMLPayload == "" {
		return nil, fmt.Errorf("%w: la factura aún no tiene XML", domain.ErrNotFound)
	}
	return []byte(inv.XMLPayload), nil
}

// UpdateNumber cambia el número mientras la factura no esté finalizada.
func (uc *InvoiceUseCase) UpdateNumber(ctx context.Context, id, number string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsDraft() {
		return nil, domain.ErrInvoiceFinalized
	}
	number = strings.TrimSpace(number)
	if err := billing.ValidateInvoiceNumber(inv, number, uc.settings.AuthorityPrefix); err != nil {
		return nil, err
	}
	if err := uc.invoices.UpdateNumber(ctx, id, number); err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number
	return toInvoiceResponse(inv), nil
}

// Delete elimina una prefactura y devuelve sus registros a completado.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if !inv.IsDraft() {
		return domain.ErrInvoiceFinalized
	}
	var released int
	err = uc.txRunner.RunBilling(ctx, func(records repository.RecordRepository, invoices repository.InvoiceRepository) error {
		n, err := records.Release(ctx, id)
		if err != nil {
			return err
		}
		released = n
		return invoices.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("invoice_id", id).Int("released", released).Msg("prefactura eliminada")
	return nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cargar factura %s: %w", id, err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
