package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execRecorder struct {
	scripts []string
}

func (e *execRecorder) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	e.scripts = append(e.scripts, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (e *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (e *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row      { return nil }

func TestMigrate_AplicaScriptsEmbebidos(t *testing.T) {
	q := &execRecorder{}
	names, err := Migrate(context.Background(), q)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])
	require.Len(t, q.scripts, len(names))
	assert.True(t, strings.Contains(q.scripts[0], "CREATE TABLE IF NOT EXISTS records"))
	assert.True(t, strings.Contains(q.scripts[0], "dedup_key"))
}
