package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, s *Store, id, status string) {
	t.Helper()
	created, err := s.Records().CreateIfAbsent(context.Background(), &entity.Record{
		ID: id, Module: entity.ModuleTrucking, Type: entity.TypeTransport, ClientID: "c1",
		Status: status, DedupKey: "k-" + id, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestRecordRepository_Dedup(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedRecord(t, s, "r1", entity.RecordStatusCompletado)
	created, err := s.Records().CreateIfAbsent(ctx, &entity.Record{ID: "r2", DedupKey: "k-r1"})
	require.NoError(t, err)
	assert.False(t, created)
}

// Solo uno de los reclamos concurrentes sobre el mismo registro gana.
func TestRecordRepository_ClaimConcurrente(t *testing.T) {
	s := NewStore()
	seedRecord(t, s, "r1", entity.RecordStatusCompletado)

	var wins, losses int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.Records().Claim(context.Background(), "r1", "inv-"+string(rune('a'+i)))
			if err == nil {
				atomic.AddInt32(&wins, 1)
			} else if errors.Is(err, domain.ErrRecordAlreadyClaimed) {
				atomic.AddInt32(&losses, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
	assert.Equal(t, int32(19), losses)
}

func TestRecordRepository_TransicionesYBorrado(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.Records()
	seedRecord(t, s, "r1", entity.RecordStatusPendiente)

	assert.True(t, errors.Is(repo.Claim(ctx, "r1", "inv"), domain.ErrRecordNotSelectable))
	require.NoError(t, repo.Complete(ctx, "r1"))
	assert.True(t, errors.Is(repo.Complete(ctx, "r1"), domain.ErrConflict))

	require.NoError(t, repo.Claim(ctx, "r1", "inv"))
	assert.True(t, errors.Is(repo.Delete(ctx, "r1"), domain.ErrRecordLocked))
	require.NoError(t, repo.MarkInvoiced(ctx, "r1", "inv"))
	assert.Error(t, repo.MarkInvoiced(ctx, "r1", "inv"))
	require.NoError(t, repo.RevertInvoiced(ctx, "r1", "inv"))

	n, err := repo.Release(ctx, "inv")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, repo.Delete(ctx, "r1"))
	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIngestionJobRepository_Guardas(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	jobs := s.Jobs()
	job := &entity.IngestionJob{ID: "j1", Status: entity.JobStatusProcessing, TotalRecords: 2, ProcessedRecords: 1}
	require.NoError(t, jobs.Create(ctx, job))

	back := *job
	back.ProcessedRecords = 0
	assert.True(t, errors.Is(jobs.Save(ctx, &back), domain.ErrConflict))

	old := time.Now().Add(-48 * time.Hour)
	done := *job
	done.ProcessedRecords = 2
	done.Status = entity.JobStatusCompleted
	done.FinishedAt = &old
	require.NoError(t, jobs.Save(ctx, &done))

	again := done
	again.Status = entity.JobStatusFailed
	assert.True(t, errors.Is(jobs.Save(ctx, &again), domain.ErrJobTerminal))

	n, err := jobs.DeleteFinishedBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestClientRepository_Resolve(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c1", Name: "Naviera Sur", TaxID: "155-1"}))

	for _, ref := range []string{"c1", "155-1", "naviera sur", " NAVIERA SUR "} {
		c, err := s.Clients().Resolve(ctx, ref)
		require.NoError(t, err)
		require.NotNil(t, c, ref)
		assert.Equal(t, "c1", c.ID)
	}
	c, err := s.Clients().Resolve(ctx, "otra")
	require.NoError(t, err)
	assert.Nil(t, c)
}
