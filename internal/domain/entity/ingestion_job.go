package entity

import (
	"math"
	"time"
)

// Estados del job de ingesta masiva.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// IngestionJob rastrea una carga masiva asíncrona. Solo el worker lo modifica.
type IngestionJob struct {
	ID               string
	Module           string
	Status           string
	TotalRecords     int
	ProcessedRecords int
	CreatedRecords   int
	DuplicateRecords int
	ErrorRecords     int
	Progress         int
	ResultMessage    string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	FinishedAt       *time.Time
}

// IsTerminal indica si el job llegó a completed o failed.
func (j *IngestionJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// RecomputeProgress actualiza Progress = round(processed/total*100).
func (j *IngestionJob) RecomputeProgress() {
	if j.TotalRecords <= 0 {
		j.Progress = 100
		return
	}
	j.Progress = int(math.Round(float64(j.ProcessedRecords) / float64(j.TotalRecords) * 100))
}
