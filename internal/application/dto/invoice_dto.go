package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdditionalLineDTO línea manual de servicio.
type AdditionalLineDTO struct {
	ServiceID   string          `json:"service_id"`
	Description string          `json:"description" validate:"required_without=ServiceID"`
	Amount      decimal.Decimal `json:"amount"`
}

// DraftInvoiceRequest body para POST /api/invoices/draft y POST /api/invoices.
type DraftInvoiceRequest struct {
	RecordIDs       []string            `json:"record_ids" validate:"required,min=1,dive,required"`
	AdditionalLines []AdditionalLineDTO `json:"additional_lines" validate:"dive"`
	InvoiceNumber   string              `json:"invoice_number"`
	Notes           string              `json:"notes" validate:"max=500"`
}

// InvoiceResponse prefactura o factura en respuestas. El XML se descarga aparte.
type InvoiceResponse struct {
	ID              string              `json:"id"`
	InvoiceNumber   string              `json:"invoice_number"`
	ClientID        string              `json:"client_id"`
	Module          string              `json:"module"`
	Type            string              `json:"type"`
	RecordIDs       []string            `json:"record_ids"`
	AdditionalLines []AdditionalLineDTO `json:"additional_lines"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	Total           decimal.Decimal     `json:"total"`
	TaxRate         decimal.Decimal     `json:"tax_rate"`
	Currency        string              `json:"currency"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	IssueDate       *time.Time          `json:"issue_date,omitempty"`
	XMLDigest       string              `json:"xml_digest,omitempty"`
	SentToSAP       bool                `json:"sent_to_sap"`
	SAPError        string              `json:"sap_error,omitempty"`
	CreatedBy       string              `json:"created_by,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	FinalizedAt     *time.Time          `json:"finalized_at,omitempty"`
}

// UpdateInvoiceNumberRequest body para PATCH /api/invoices/:id/number.
type UpdateInvoiceNumberRequest struct {
	InvoiceNumber string `json:"invoice_number" validate:"required"`
}

// FinalizeInvoiceRequest body para POST /api/invoices/:id/finalize.
// IssueDate en formato YYYY-MM-DD; vacío = hoy.
type FinalizeInvoiceRequest struct {
	InvoiceNumber string `json:"invoice_number" validate:"required"`
	IssueDate     string `json:"issue_date" validate:"omitempty,datetime=2006-01-02"`
	SendToSAP     bool   `json:"send_to_sap"`
}

// FinalizeInvoiceResponse factura finalizada más advertencias no fatales (entrega a SAP).
type FinalizeInvoiceResponse struct {
	Invoice  *InvoiceResponse `json:"invoice"`
	Warnings []string         `json:"warnings,omitempty"`
}
