package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	jobID string
	rows  []ingestion.ResolvedRow
}

func (f *fakeProcessor) Process(_ context.Context, jobID string, rows []ingestion.ResolvedRow) error {
	f.jobID, f.rows = jobID, rows
	return nil
}

func TestIngestionTask_HandlerRecibeFilas(t *testing.T) {
	rows := []ingestion.ResolvedRow{{Row: 1, ClientID: "c1", Type: "transport", Values: map[string]string{"container": "MSCU1"}}}
	task, err := NewIngestionTask("job-1", rows)
	require.NoError(t, err)
	assert.Equal(t, TaskIngestionProcess, task.Type())

	p := &fakeProcessor{}
	require.NoError(t, NewIngestionHandler(p)(context.Background(), task))
	assert.Equal(t, "job-1", p.jobID)
	assert.Equal(t, rows, p.rows)
}

func TestIngestionHandler_PayloadInvalidoNoReintenta(t *testing.T) {
	h := NewIngestionHandler(&fakeProcessor{})

	err := h(context.Background(), asynq.NewTask(TaskIngestionProcess, []byte("{")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))

	err = h(context.Background(), asynq.NewTask(TaskIngestionProcess, []byte(`{"rows":[]}`)))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
