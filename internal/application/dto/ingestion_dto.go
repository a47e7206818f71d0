package dto

import "time"

// IngestionRow fila de la carga masiva: referencia al cliente y columnas del módulo.
type IngestionRow struct {
	Client string            `json:"client" validate:"required"`
	Type   string            `json:"type,omitempty"`
	Values map[string]string `json:"values" validate:"required"`
}

// IngestionSubmitRequest body para POST /api/ingestion/jobs.
type IngestionSubmitRequest struct {
	Module string         `json:"module" validate:"required,oneof=trucking agency shipchandler"`
	Rows   []IngestionRow `json:"rows" validate:"required,min=1,dive"`
}

// IngestionSubmitResponse respuesta 202 con el job creado.
type IngestionSubmitResponse struct {
	JobID        string `json:"jobId"`
	TotalRecords int    `json:"totalRecords"`
}

// IngestionJobResponse instantánea del job para polling.
type IngestionJobResponse struct {
	ID               string     `json:"id"`
	Module           string     `json:"module"`
	Status           string     `json:"status"`
	TotalRecords     int        `json:"total_records"`
	ProcessedRecords int        `json:"processed_records"`
	CreatedRecords   int        `json:"created_records"`
	DuplicateRecords int        `json:"duplicate_records"`
	ErrorRecords     int        `json:"error_records"`
	Progress         int        `json:"progress"`
	ResultMessage    string     `json:"result_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}
