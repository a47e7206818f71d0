package ingestion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// UseCase recibe cargas masivas y expone el estado de los jobs.
type UseCase struct {
	clients    repository.ClientRepository
	jobs       repository.IngestionJobRepository
	dispatcher Dispatcher
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(clients repository.ClientRepository, jobs repository.IngestionJobRepository, dispatcher Dispatcher, log zerolog.Logger) *UseCase {
	return &UseCase{
		clients:    clients,
		jobs:       jobs,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Submit valida módulo y clientes de forma síncrona, crea el job en pending y lo despacha.
// Si alguna fila no resuelve su cliente no se crea nada y se devuelve UnresolvedClientsError.
func (uc *UseCase) Submit(ctx context.Context, userID string, in dto.IngestionSubmitRequest) (*dto.IngestionSubmitResponse, error) {
	module := strings.ToLower(strings.TrimSpace(in.Module))
	if !entity.ValidModule(module) {
		return nil, fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, in.Module)
	}
	if len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: la carga no tiene filas", domain.ErrInvalidInput)
	}

	// Resolver cada referencia una sola vez
	cache := make(map[string]string)
	var unresolved []int
	rows := make([]ResolvedRow, 0, len(in.Rows))
	for i, r := range in.Rows {
		ref := strings.TrimSpace(r.Client)
		clientID, ok := cache[strings.ToLower(ref)]
		if !ok {
			c, err := uc.clients.Resolve(ctx, ref)
			if err != nil {
				return nil, err
			}
			if c != nil {
				clientID = c.ID
			}
			cache[strings.ToLower(ref)] = clientID
		}
		if clientID == "" {
			unresolved = append(unresolved, i+1)
			continue
		}
		rows = append(rows, ResolvedRow{Row: i + 1, ClientID: clientID, Type: strings.ToLower(strings.TrimSpace(r.Type)), Values: r.Values})
	}
	if len(unresolved) > 0 {
		return nil, &domain.UnresolvedClientsError{Rows: unresolved}
	}

	now := uc.now()
	job := &entity.IngestionJob{
		ID:           uuid.New().String(),
		Module:       module,
		Status:       entity.JobStatusPending,
		TotalRecords: len(rows),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	if err := uc.dispatcher.Dispatch(ctx, job.ID, rows); err != nil {
		uc.log.Error().Err(err).Str("job_id", job.ID).Msg("no se pudo despachar el job")
		finished := uc.now()
		job.Status = entity.JobStatusFailed
		job.ResultMessage = "no se pudo encolar: " + err.Error()
		job.FinishedAt = &finished
		job.UpdatedAt = finished
		if saveErr := uc.jobs.Save(ctx, job); saveErr != nil {
			uc.log.Error().Err(saveErr).Str("job_id", job.ID).Msg("no se pudo marcar el job como fallido")
		}
		return nil, fmt.Errorf("despachar job: %w", err)
	}
	uc.log.Info().Str("job_id", job.ID).Str("module", module).Int("rows", len(rows)).Msg("job de ingesta creado")
	return &dto.IngestionSubmitResponse{JobID: job.ID, TotalRecords: job.TotalRecords}, nil
}

// GetStatus devuelve la instantánea actual del job. Solo lectura.
func (uc *UseCase) GetStatus(ctx context.Context, id string) (*dto.IngestionJobResponse, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.IngestionJobResponse{
		ID:               job.ID,
		Module:           job.Module,
		Status:           job.Status,
		TotalRecords:     job.TotalRecords,
		ProcessedRecords: job.ProcessedRecords,
		CreatedRecords:   job.CreatedRecords,
		DuplicateRecords: job.DuplicateRecords,
		ErrorRecords:     job.ErrorRecords,
		Progress:         job.Progress,
		ResultMessage:    job.ResultMessage,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
		FinishedAt:       job.FinishedAt,
	}, nil
}
