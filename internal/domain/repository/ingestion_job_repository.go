package repository

import (
	"context"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// IngestionJobRepository persiste el estado de los jobs de ingesta.
type IngestionJobRepository interface {
	Create(ctx context.Context, job *entity.IngestionJob) error
	GetByID(ctx context.Context, id string) (*entity.IngestionJob, error)
	// Save guarda contadores y estado. No sobrescribe un job terminal ni retrocede processed_records.
	Save(ctx context.Context, job *entity.IngestionJob) error
	// DeleteFinishedBefore purga jobs terminales anteriores al corte.
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
