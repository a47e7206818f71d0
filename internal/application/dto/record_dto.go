package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordResponse registro facturable en respuestas. Payload conserva la forma del módulo.
type RecordResponse struct {
	ID        string          `json:"id"`
	Module    string          `json:"module"`
	Type      string          `json:"type"`
	ClientID  string          `json:"client_id"`
	Status    string          `json:"status"`
	InvoiceID string          `json:"invoice_id,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Payload   any             `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordListQuery filtros de GET /api/records.
type RecordListQuery struct {
	Module   string `query:"module" validate:"omitempty,oneof=trucking agency shipchandler"`
	Status   string `query:"status" validate:"omitempty,oneof=pendiente completado prefacturado facturado"`
	ClientID string `query:"client_id"`
	Limit    int    `query:"limit" validate:"min=0,max=100"`
	Offset   int    `query:"offset" validate:"min=0"`
}

// SelectionRequest body para POST /api/records/selection.
// CurrentIDs es la selección vigente (su primer elemento es el ancla).
type SelectionRequest struct {
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,dive,required"`
	CurrentIDs   []string `json:"current_ids" validate:"dive,required"`
}

// SelectionResponse IDs aceptados y resumen de la selección resultante.
type SelectionResponse struct {
	Accepted  []string         `json:"accepted"`
	Selection []string         `json:"selection"`
	Summary   SelectionSummary `json:"summary"`
}

// SelectionSummary estadísticas de la selección.
type SelectionSummary struct {
	Count    int             `json:"count"`
	ClientID string          `json:"client_id,omitempty"`
	Module   string          `json:"module,omitempty"`
	Type     string          `json:"type,omitempty"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
