package ingestion

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// GoroutineDispatcher procesa cada job en una goroutine del propio proceso.
// Se usa cuando no hay Redis configurado.
type GoroutineDispatcher struct {
	processor *Processor
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewGoroutineDispatcher crea el despachador local.
func NewGoroutineDispatcher(processor *Processor, log zerolog.Logger) *GoroutineDispatcher {
	return &GoroutineDispatcher{processor: processor, log: log}
}

// Dispatch lanza el procesamiento y retorna de inmediato.
func (d *GoroutineDispatcher) Dispatch(_ context.Context, jobID string, rows []ResolvedRow) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// El request HTTP ya terminó; el job no depende de su contexto
		if err := d.processor.Process(context.Background(), jobID, rows); err != nil {
			d.log.Error().Err(err).Str("job_id", jobID).Msg("error procesando job")
		}
	}()
	return nil
}

// Wait bloquea hasta que terminen los jobs en curso (shutdown y tests).
func (d *GoroutineDispatcher) Wait() {
	d.wg.Wait()
}
