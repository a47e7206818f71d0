// Package ingestion implementa la carga masiva asíncrona de registros desde hojas de cálculo.
package ingestion

import (
	"context"
	"time"
)

// ResolvedRow fila con el cliente ya resuelto. Row es el número de fila (1-based) de la carga.
type ResolvedRow struct {
	Row      int               `json:"row"`
	ClientID string            `json:"client_id"`
	Type     string            `json:"type,omitempty"`
	Values   map[string]string `json:"values"`
}

// Dispatcher entrega un job creado a quien lo procesará (goroutine local o cola asynq).
// Debe retornar en cuanto el trabajo queda encolado; nunca espera al procesamiento.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobID string, rows []ResolvedRow) error
}

// Metrics observa el avance de las cargas.
type Metrics interface {
	RowProcessed(module, outcome string)
	JobFinished(module, status string, elapsed time.Duration)
}

// Resultados de una fila.
const (
	OutcomeCreated   = "created"
	OutcomeDuplicate = "duplicate"
	OutcomeInvalid   = "invalid"
)

type noopMetrics struct{}

func (noopMetrics) RowProcessed(string, string)                {}
func (noopMetrics) JobFinished(string, string, time.Duration) {}
