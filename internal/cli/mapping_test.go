package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/application/dto"
)

func TestColumnMapping_RenombraColumnas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`module: trucking
columns:
  "Nro Contenedor": container_id
  "Valor USD": Amount
`), 0o600))

	m, err := LoadColumnMapping(path)
	require.NoError(t, err)
	assert.Equal(t, "trucking", m.Module)

	rows := []dto.IngestionRow{{Client: "c1", Values: map[string]string{
		"nro contenedor": "MSCU1", "valor usd": "100", "origin": "BAL",
	}}}
	m.Apply(rows)
	assert.Equal(t, map[string]string{"container_id": "MSCU1", "amount": "100", "origin": "BAL"}, rows[0].Values)
}

func TestColumnMapping_DestinoVacio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("columns:\n  fecha: \"\"\n"), 0o600))
	_, err := LoadColumnMapping(path)
	assert.Error(t, err)
}
