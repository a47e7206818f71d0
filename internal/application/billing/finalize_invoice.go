package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/billing"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	domsap "github.com/jhoicas/logistica-api/internal/domain/sap"
	infrasap "github.com/jhoicas/logistica-api/internal/infrastructure/sap"
	pkgsap "github.com/jhoicas/logistica-api/pkg/sap"
	"github.com/rs/zerolog"
)

// FinalizeInput datos de finalización.
type FinalizeInput struct {
	InvoiceNumber string
	IssueDate     *time.Time
	SendToSAP     bool
}

// FinalizeInvoiceUseCase bloquea la prefactura: genera el XML, marca los registros como facturados
// y, opcionalmente, lo entrega a SAP.
type FinalizeInvoiceUseCase struct {
	txRunner   TxRunner
	records    repository.RecordRepository
	invoices   repository.InvoiceRepository
	clients    repository.ClientRepository
	catalog    repository.ServiceCatalogRepository
	xmlBuilder *infrasap.XMLBuilder
	sender     ExternalSender // nil = sin endpoint configurado
	metrics    Metrics
	settings   Settings
	log        zerolog.Logger
	now        func() time.Time
}

// NewFinalizeInvoiceUseCase construye el caso de uso.
func NewFinalizeInvoiceUseCase(
	txRunner TxRunner,
	records repository.RecordRepository,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	catalog repository.ServiceCatalogRepository,
	xmlBuilder *infrasap.XMLBuilder,
	sender ExternalSender,
	metrics Metrics,
	settings Settings,
	log zerolog.Logger,
) *FinalizeInvoiceUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &FinalizeInvoiceUseCase{
		txRunner:   txRunner,
		records:    records,
		invoices:   invoices,
		clients:    clients,
		catalog:    catalog,
		xmlBuilder: xmlBuilder,
		sender:     sender,
		metrics:    metrics,
		settings:   settings,
		log:        log,
		now:        time.Now,
	}
}

// Finalize ejecuta la finalización. El XML se genera antes de cualquier mutación; la entrega a SAP
// es best-effort y sus fallos vuelven como advertencias, nunca como error.
func (uc *FinalizeInvoiceUseCase) Finalize(ctx context.Context, invoiceID string, in FinalizeInput) (*dto.FinalizeInvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status == entity.InvoiceStatusFacturada {
		return nil, domain.ErrInvoiceFinalized
	}
	number := strings.TrimSpace(in.InvoiceNumber)
	if err := billing.ValidateInvoiceNumber(inv, number, uc.settings.AuthorityPrefix); err != nil {
		return nil, err
	}

	// Solo cuentan los registros que siguen reclamados por esta factura
	loaded, err := uc.records.ListByIDs(ctx, inv.RecordIDs)
	if err != nil {
		return nil, err
	}
	billable := make([]*entity.Record, 0, len(loaded))
	for _, r := range loaded {
		if r.InvoiceID == inv.ID {
			billable = append(billable, r)
		}
	}
	if len(billable) == 0 {
		return nil, domain.ErrNoBillableLines
	}

	client, err := uc.clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, inv.ClientID)
	}
	catalog, err := uc.catalog.GetByIDs(ctx, serviceIDs(inv.AdditionalLines))
	if err != nil {
		return nil, err
	}

	now := uc.now()
	issue := now
	if in.IssueDate != nil {
		issue = *in.IssueDate
	}
	updated := *inv
	updated.InvoiceNumber = number
	updated.IssueDate = &issue
	updated.Status = entity.InvoiceStatusFacturada
	updated.FinalizedAt = &now
	updated.UpdatedAt = now

	lines, err := domsap.Aggregate(domsap.Input{
		Module:          inv.Module,
		Type:            inv.Type,
		Records:         billable,
		AdditionalLines: inv.AdditionalLines,
		Catalog:         catalog,
		CustomsFeeRate:  uc.settings.CustomsFeeRate,
	})
	if err != nil {
		return nil, err
	}
	xmlBytes, err := uc.xmlBuilder.Build(&infrasap.Document{
		Invoice:        &updated,
		Client:         client,
		Lines:          lines,
		SurchargeTotal: domsap.Sum(lines, pkgsap.LineKindSurcharge),
		GeneratedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("generar XML: %w", err)
	}
	digest, err := infrasap.ContentDigest(xmlBytes)
	if err != nil {
		return nil, err
	}
	updated.XMLPayload = string(xmlBytes)
	updated.XMLDigest = digest

	err = uc.txRunner.RunBilling(ctx, func(records repository.RecordRepository, invoices repository.InvoiceRepository) error {
		marked := make([]string, 0, len(billable))
		for _, r := range billable {
			if err := records.MarkInvoiced(ctx, r.ID, inv.ID); err != nil {
				uc.revertInvoiced(ctx, records, inv.ID, marked)
				return fmt.Errorf("registro %s: %w", r.ID, err)
			}
			marked = append(marked, r.ID)
		}
		if err := invoices.MarkFinalized(ctx, &updated); err != nil {
			uc.revertInvoiced(ctx, records, inv.ID, marked)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.InvoiceFinalized(inv.Module)
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", number).Int("lines", len(lines)).
		Str("digest", digest).Msg("factura finalizada")

	var warnings []string
	if in.SendToSAP {
		if w := uc.deliver(ctx, &updated, xmlBytes); w != "" {
			warnings = append(warnings, w)
		}
	}
	return &dto.FinalizeInvoiceResponse{Invoice: toInvoiceResponse(&updated), Warnings: warnings}, nil
}

// deliver entrega el XML y registra el resultado. Devuelve la advertencia, si la hay.
func (uc *FinalizeInvoiceUseCase) deliver(ctx context.Context, inv *entity.Invoice, xmlBytes []byte) string {
	if uc.sender == nil {
		return "SAP no configurado: el documento no fue enviado"
	}
	_, sendErr := uc.sender.Send(ctx, inv.InvoiceNumber, xmlBytes)
	uc.metrics.DeliveryAttempt(sendErr == nil)
	if sendErr != nil {
		err := fmt.Errorf("%w: %v", domain.ErrExternalDelivery, sendErr)
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("entrega a SAP fallida")
		inv.SAPError = sendErr.Error()
		if uerr := uc.invoices.UpdateDelivery(ctx, inv.ID, false, inv.SAPError); uerr != nil {
			uc.log.Error().Err(uerr).Str("invoice_id", inv.ID).Msg("no se pudo registrar el fallo de entrega")
		}
		return err.Error()
	}
	inv.SentToSAP = true
	inv.SAPError = ""
	if uerr := uc.invoices.UpdateDelivery(ctx, inv.ID, true, ""); uerr != nil {
		uc.log.Error().Err(uerr).Str("invoice_id", inv.ID).Msg("no se pudo registrar la entrega")
	}
	return ""
}

func (uc *FinalizeInvoiceUseCase) revertInvoiced(ctx context.Context, records repository.RecordRepository, invoiceID string, marked []string) {
	for _, id := range marked {
		if err := records.RevertInvoiced(ctx, id, invoiceID); err != nil {
			uc.log.Error().Err(err).Str("invoice_id", invoiceID).Str("record_id", id).Msg("no se pudo revertir el registro")
		}
	}
}

func serviceIDs(lines []entity.AdditionalLine) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.ServiceID != "" {
			ids = append(ids, l.ServiceID)
		}
	}
	return ids
}
