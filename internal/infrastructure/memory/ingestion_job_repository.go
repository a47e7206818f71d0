package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

var _ repository.IngestionJobRepository = (*IngestionJobRepository)(nil)

// IngestionJobRepository implementación en memoria de repository.IngestionJobRepository.
type IngestionJobRepository struct {
	s *Store
}

func (r *IngestionJobRepository) Create(ctx context.Context, job *entity.IngestionJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.jobs[job.ID]; exists {
		return domain.ErrDuplicate
	}
	r.s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *IngestionJobRepository) GetByID(ctx context.Context, id string) (*entity.IngestionJob, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, nil
	}
	return cloneJob(j), nil
}

// Save no sobrescribe un job terminal ni retrocede processed_records.
func (r *IngestionJobRepository) Save(ctx context.Context, job *entity.IngestionJob) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.IsTerminal() {
		return domain.ErrJobTerminal
	}
	if job.ProcessedRecords < cur.ProcessedRecords {
		return fmt.Errorf("%w: processed_records no puede disminuir", domain.ErrConflict)
	}
	r.s.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *IngestionJobRepository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, j := range r.s.jobs {
		if j.IsTerminal() && j.FinishedAt != nil && j.FinishedAt.Before(cutoff) {
			delete(r.s.jobs, id)
			n++
		}
	}
	return n, nil
}
