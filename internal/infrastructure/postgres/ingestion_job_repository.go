package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.IngestionJobRepository = (*IngestionJobRepo)(nil)

// IngestionJobRepo implementación de IngestionJobRepository.
type IngestionJobRepo struct {
	q Querier
}

// NewIngestionJobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngestionJobRepository(q Querier) *IngestionJobRepo {
	return &IngestionJobRepo{q: q}
}

func (r *IngestionJobRepo) Create(ctx context.Context, job *entity.IngestionJob) error {
	query := `
		INSERT INTO ingestion_jobs (id, module, status, total_records, processed_records, created_records,
			duplicate_records, error_records, progress, result_message, created_by, created_at, updated_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		job.ID, job.Module, job.Status, job.TotalRecords, job.ProcessedRecords, job.CreatedRecords,
		job.DuplicateRecords, job.ErrorRecords, job.Progress, nullIfEmpty(job.ResultMessage), nullIfEmpty(job.CreatedBy),
		job.CreatedAt, job.UpdatedAt, job.FinishedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ingestion job: %w", err)
	}
	return nil
}

func (r *IngestionJobRepo) GetByID(ctx context.Context, id string) (*entity.IngestionJob, error) {
	var (
		j                  entity.IngestionJob
		message, createdBy *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, module, status, total_records, processed_records, created_records, duplicate_records,
			error_records, progress, result_message, created_by, created_at, updated_at, finished_at
		FROM ingestion_jobs WHERE id = $1`, id).Scan(
		&j.ID, &j.Module, &j.Status, &j.TotalRecords, &j.ProcessedRecords, &j.CreatedRecords, &j.DuplicateRecords,
		&j.ErrorRecords, &j.Progress, &message, &createdBy, &j.CreatedAt, &j.UpdatedAt, &j.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingestion job: %w", err)
	}
	j.ResultMessage = derefString(message)
	j.CreatedBy = derefString(createdBy)
	return &j, nil
}

// Save actualización condicional: el job no es terminal y processed_records no retrocede.
func (r *IngestionJobRepo) Save(ctx context.Context, job *entity.IngestionJob) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ingestion_jobs
		SET status            = $2,
		    processed_records = $3,
		    created_records   = $4,
		    duplicate_records = $5,
		    error_records     = $6,
		    progress          = $7,
		    result_message    = $8,
		    updated_at        = $9,
		    finished_at       = $10
		WHERE id = $1
		  AND status NOT IN ('completed', 'failed')
		  AND processed_records <= $3`,
		job.ID, job.Status, job.ProcessedRecords, job.CreatedRecords, job.DuplicateRecords,
		job.ErrorRecords, job.Progress, nullIfEmpty(job.ResultMessage), job.UpdatedAt, job.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("save ingestion job: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	cur, err := r.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	switch {
	case cur == nil:
		return domain.ErrNotFound
	case cur.IsTerminal():
		return domain.ErrJobTerminal
	default:
		return fmt.Errorf("%w: processed_records no puede disminuir", domain.ErrConflict)
	}
}

func (r *IngestionJobRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM ingestion_jobs
		WHERE status IN ('completed', 'failed') AND finished_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge ingestion jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
