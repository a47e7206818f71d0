package ingestion

import (
	"context"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Janitor purga periódicamente los jobs terminados más antiguos que la retención.
type Janitor struct {
	jobs      repository.IngestionJobRepository
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
	clock     func() time.Time
}

// NewJanitor crea el purgador. interval <= 0 usa una hora.
func NewJanitor(jobs repository.IngestionJobRepository, retention, interval time.Duration, log zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{jobs: jobs, retention: retention, interval: interval, log: log, clock: time.Now}
}

// PurgeOnce elimina los jobs terminales con FinishedAt anterior a ahora - retención.
func (j *Janitor) PurgeOnce(ctx context.Context) (int, error) {
	n, err := j.jobs.DeleteFinishedBefore(ctx, j.clock().Add(-j.retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		j.log.Info().Int("deleted", n).Msg("jobs de ingesta purgados")
	}
	return n, nil
}

// Run ejecuta PurgeOnce en cada tick hasta que ctx se cancele.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := j.PurgeOnce(ctx); err != nil {
				j.log.Error().Err(err).Msg("error purgando jobs")
			}
		}
	}
}
