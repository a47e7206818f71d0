// Package cli implementa los comandos de logctl.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
)

// APIClient cliente mínimo de la API de ingesta.
type APIClient struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewAPIClient construye el cliente.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit envía las filas y devuelve el job creado.
func (c *APIClient) Submit(ctx context.Context, in dto.IngestionSubmitRequest) (*dto.IngestionSubmitResponse, error) {
	var out dto.IngestionSubmitResponse
	if err := c.do(ctx, http.MethodPost, "/api/ingestion/jobs", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status consulta el job.
func (c *APIClient) Status(ctx context.Context, jobID string) (*dto.IngestionJobResponse, error) {
	var out dto.IngestionJobResponse
	if err := c.do(ctx, http.MethodGet, "/api/ingestion/jobs/"+jobID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// APIError respuesta de error de la API.
type APIError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("HTTP %d %s: %s", e.Status, e.Body.Code, e.Body.Message)
	if len(e.Body.Rows) > 0 {
		msg += fmt.Sprintf(" (filas %v)", e.Body.Rows)
	}
	return msg
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr.Body)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Backoff espera exponencial entre consultas: Initial, 2×, 4×… hasta Max.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

// Next devuelve la espera siguiente a cur.
func (b Backoff) Next(cur time.Duration) time.Duration {
	if cur <= 0 {
		return b.Initial
	}
	next := cur * 2
	if next > b.Max {
		return b.Max
	}
	return next
}

// Poll consulta el job hasta que termine. onUpdate recibe cada instantánea.
func Poll(ctx context.Context, c *APIClient, jobID string, b Backoff, onUpdate func(*dto.IngestionJobResponse)) (*dto.IngestionJobResponse, error) {
	var delay time.Duration
	for {
		job, err := c.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if onUpdate != nil {
			onUpdate(job)
		}
		if job.Status == entity.JobStatusCompleted || job.Status == entity.JobStatusFailed {
			return job, nil
		}
		delay = b.Next(delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}
