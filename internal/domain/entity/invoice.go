package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la factura.
const (
	InvoiceStatusBorrador   = "borrador"   // Vista previa, no persistida
	InvoiceStatusPrefactura = "prefactura" // Guardada; registros reclamados
	InvoiceStatusFacturada  = "facturada"  // Finalizada; número y XML bloqueados
)

// Invoice representa la prefactura o factura consolidada.
type Invoice struct {
	ID              string
	InvoiceNumber   string
	ClientID        string
	Module          string
	Type            string
	RecordIDs       []string // conjunto ordenado y sin repetidos
	AdditionalLines []AdditionalLine
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	TaxRate         decimal.Decimal
	Currency        string
	Status          string
	Notes           string
	IssueDate       *time.Time
	XMLPayload      string
	XMLDigest       string // SHA-256 del XML canónico sin GeneratedAt
	SentToSAP       bool
	SAPError        string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	FinalizedAt     *time.Time
}

// IsDraft indica si la factura todavía es editable (borrador o prefactura).
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusBorrador || i.Status == InvoiceStatusPrefactura
}

// AdditionalLine línea de servicio ingresada manualmente por el operador.
type AdditionalLine struct {
	ServiceID   string          `json:"service_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
