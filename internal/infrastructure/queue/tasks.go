// Package queue despacha jobs de ingesta por Redis usando asynq.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
)

const (
	// QueueDefault cola por defecto.
	QueueDefault = "default"
	// TaskIngestionProcess tipo de tarea para procesar un job de ingesta.
	TaskIngestionProcess = "ingestion:process"
)

// IngestionPayload contenido de la tarea.
type IngestionPayload struct {
	JobID string                  `json:"job_id"`
	Rows  []ingestion.ResolvedRow `json:"rows"`
}

// NewIngestionTask construye la tarea asynq. Los reintentos los decide el procesador, no la cola.
func NewIngestionTask(jobID string, rows []ingestion.ResolvedRow) (*asynq.Task, error) {
	data, err := json.Marshal(IngestionPayload{JobID: jobID, Rows: rows})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIngestionProcess, data, asynq.MaxRetry(0)), nil
}

// RowProcessor lo implementa *ingestion.Processor.
type RowProcessor interface {
	Process(ctx context.Context, jobID string, rows []ingestion.ResolvedRow) error
}

// NewIngestionHandler devuelve el handler asynq que delega en el procesador.
func NewIngestionHandler(p RowProcessor) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload IngestionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
		if payload.JobID == "" {
			return fmt.Errorf("payload sin job_id: %w", asynq.SkipRetry)
		}
		return p.Process(ctx, payload.JobID, payload.Rows)
	}
}
