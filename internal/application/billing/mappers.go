package billing

import (
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	lines := make([]dto.AdditionalLineDTO, 0, len(inv.AdditionalLines))
	for _, l := range inv.AdditionalLines {
		lines = append(lines, dto.AdditionalLineDTO{ServiceID: l.ServiceID, Description: l.Description, Amount: l.Amount})
	}
	ids := make([]string, len(inv.RecordIDs))
	copy(ids, inv.RecordIDs)
	return &dto.InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		ClientID:        inv.ClientID,
		Module:          inv.Module,
		Type:            inv.Type,
		RecordIDs:       ids,
		AdditionalLines: lines,
		Subtotal:        inv.Subtotal,
		Tax:             inv.Tax,
		Total:           inv.Total,
		TaxRate:         inv.TaxRate,
		Currency:        inv.Currency,
		Status:          inv.Status,
		Notes:           inv.Notes,
		IssueDate:       inv.IssueDate,
		XMLDigest:       inv.XMLDigest,
		SentToSAP:       inv.SentToSAP,
		SAPError:        inv.SAPError,
		CreatedBy:       inv.CreatedBy,
		CreatedAt:       inv.CreatedAt,
		FinalizedAt:     inv.FinalizedAt,
	}
}

func toRecordResponse(r *entity.Record) *dto.RecordResponse {
	return &dto.RecordResponse{
		ID:        r.ID,
		Module:    r.Module,
		Type:      r.Type,
		ClientID:  r.ClientID,
		Status:    r.Status,
		InvoiceID: r.InvoiceID,
		Price:     r.Price(),
		Payload:   r.Payload,
		CreatedAt: r.CreatedAt,
	}
}

func toAdditionalLines(in []dto.AdditionalLineDTO) []entity.AdditionalLine {
	out := make([]entity.AdditionalLine, 0, len(in))
	for _, l := range in {
		out = append(out, entity.AdditionalLine{ServiceID: l.ServiceID, Description: l.Description, Amount: l.Amount})
	}
	return out
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		TaxID:   c.TaxID,
		SAPCode: c.SAPCode,
		Email:   c.Email,
		Phone:   c.Phone,
	}
}
