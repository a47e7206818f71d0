package queue

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
)

var _ ingestion.Dispatcher = (*Client)(nil)

// Client encola jobs de ingesta. Implementa ingestion.Dispatcher.
type Client struct {
	client *asynq.Client
}

// NewClient construye el cliente asynq.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// Dispatch encola la tarea en la cola por defecto.
func (c *Client) Dispatch(ctx context.Context, jobID string, rows []ingestion.ResolvedRow) error {
	task, err := NewIngestionTask(jobID, rows)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.TaskID(jobID))
	return err
}

// Close libera la conexión a Redis.
func (c *Client) Close() error {
	return c.client.Close()
}
