package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// MsgInterrupted mensaje del job encontrado en processing al reintentar.
const MsgInterrupted = "procesamiento interrumpido"

// Processor ejecuta un job de ingesta: decodifica cada fila, descarta duplicados y guarda el progreso.
type Processor struct {
	records     repository.RecordRepository
	jobs        repository.IngestionJobRepository
	metrics     Metrics
	log         zerolog.Logger
	concurrency int
	clock       func() time.Time
}

// NewProcessor construye el procesador. metrics puede ser nil.
func NewProcessor(records repository.RecordRepository, jobs repository.IngestionJobRepository, metrics Metrics, concurrency int, log zerolog.Logger) *Processor {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		records:     records,
		jobs:        jobs,
		metrics:     metrics,
		log:         log,
		concurrency: concurrency,
		clock:       time.Now,
	}
}

// DedupKey huella de duplicados: SHA-256 de módulo|cliente|clave natural. El tipo no participa.
func DedupKey(module, clientID, naturalKey string) string {
	sum := sha256.Sum256([]byte(module + "|" + clientID + "|" + naturalKey))
	return hex.EncodeToString(sum[:])
}

// Process lleva el job de pending a completed o failed.
// Un job ya terminal se ignora; uno en processing quedó huérfano y se marca failed.
func (p *Processor) Process(ctx context.Context, jobID string, rows []ResolvedRow) error {
	job, err := p.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s: %w", jobID, domain.ErrNotFound)
	}
	logger := p.log.With().Str("job_id", job.ID).Str("module", job.Module).Logger()

	switch job.Status {
	case entity.JobStatusCompleted, entity.JobStatusFailed:
		logger.Warn().Str("status", job.Status).Msg("job ya terminado, se ignora")
		return nil
	case entity.JobStatusProcessing:
		logger.Warn().Msg("job encontrado en processing, se marca como fallido")
		return p.fail(ctx, job, MsgInterrupted)
	}

	started := p.clock()
	job.Status = entity.JobStatusProcessing
	job.UpdatedAt = started
	if err := p.jobs.Save(ctx, job); err != nil {
		return err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := p.processRow(gctx, job.Module, row)
			if err != nil {
				return fmt.Errorf("fila %d: %w", row.Row, err)
			}
			p.metrics.RowProcessed(job.Module, outcome)

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case OutcomeCreated:
				job.CreatedRecords++
			case OutcomeDuplicate:
				job.DuplicateRecords++
			default:
				job.ErrorRecords++
			}
			job.ProcessedRecords++
			job.RecomputeProgress()
			job.UpdatedAt = p.clock()
			return p.jobs.Save(gctx, job)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Int("processed", job.ProcessedRecords).Msg("ingesta fallida")
		p.metrics.JobFinished(job.Module, entity.JobStatusFailed, p.clock().Sub(started))
		// ctx del errgroup ya está cancelado; se usa el del llamador
		if ferr := p.fail(ctx, job, err.Error()); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}

	finished := p.clock()
	job.Status = entity.JobStatusCompleted
	job.RecomputeProgress()
	job.ResultMessage = fmt.Sprintf("%d creados, %d duplicados, %d con error", job.CreatedRecords, job.DuplicateRecords, job.ErrorRecords)
	job.FinishedAt = &finished
	job.UpdatedAt = finished
	if err := p.jobs.Save(ctx, job); err != nil {
		return err
	}
	p.metrics.JobFinished(job.Module, entity.JobStatusCompleted, finished.Sub(started))
	logger.Info().
		Int("created", job.CreatedRecords).
		Int("duplicates", job.DuplicateRecords).
		Int("errors", job.ErrorRecords).
		Dur("elapsed", finished.Sub(started)).
		Msg("ingesta completada")
	return nil
}

// processRow devuelve el resultado de la fila. Un error solo se retorna si falla el almacenamiento.
func (p *Processor) processRow(ctx context.Context, module string, row ResolvedRow) (string, error) {
	typ := row.Type
	if typ == "" {
		typ = entity.DefaultType(module)
	}
	if !entity.ValidType(module, typ) {
		p.log.Debug().Int("row", row.Row).Str("type", typ).Msg("tipo inválido")
		return OutcomeInvalid, nil
	}
	payload, err := entity.DecodePayload(module, row.Values)
	if err != nil {
		p.log.Debug().Err(err).Int("row", row.Row).Msg("fila inválida")
		return OutcomeInvalid, nil
	}

	status := entity.RecordStatusPendiente
	if payload.Price().IsPositive() {
		status = entity.RecordStatusCompletado
	}
	now := p.clock()
	rec := &entity.Record{
		ID:        uuid.New().String(),
		Module:    module,
		Type:      typ,
		ClientID:  row.ClientID,
		Status:    status,
		Payload:   payload,
		DedupKey:  DedupKey(module, row.ClientID, payload.NaturalKey()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := p.records.CreateIfAbsent(ctx, rec)
	if err != nil {
		return "", err
	}
	if !created {
		return OutcomeDuplicate, nil
	}
	return OutcomeCreated, nil
}

func (p *Processor) fail(ctx context.Context, job *entity.IngestionJob, msg string) error {
	finished := p.clock()
	job.Status = entity.JobStatusFailed
	job.ResultMessage = msg
	job.FinishedAt = &finished
	job.UpdatedAt = finished
	return p.jobs.Save(ctx, job)
}
