package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/logistica-api/internal/application/dto"
)

// ColumnMapping renombra columnas de la hoja antes de enviarlas.
//
//	module: trucking
//	columns:
//	  "Nro Contenedor": container_id
//	  "Valor USD": amount
type ColumnMapping struct {
	Module  string            `yaml:"module"`
	Columns map[string]string `yaml:"columns"`
}

// LoadColumnMapping lee el archivo YAML de mapeo.
func LoadColumnMapping(path string) (*ColumnMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer mapeo: %w", err)
	}
	var m ColumnMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("mapeo %s: %w", path, err)
	}
	norm := make(map[string]string, len(m.Columns))
	for from, to := range m.Columns {
		to = strings.ToLower(strings.TrimSpace(to))
		if to == "" {
			return nil, fmt.Errorf("mapeo %s: columna %q sin destino", path, from)
		}
		norm[strings.ToLower(strings.TrimSpace(from))] = to
	}
	m.Columns = norm
	return &m, nil
}

// Apply renombra las claves de Values. Las columnas sin mapeo se conservan.
func (m *ColumnMapping) Apply(rows []dto.IngestionRow) {
	if m == nil || len(m.Columns) == 0 {
		return
	}
	for i := range rows {
		renamed := make(map[string]string, len(rows[i].Values))
		for k, v := range rows[i].Values {
			if to, ok := m.Columns[k]; ok {
				k = to
			}
			renamed[k] = v
		}
		rows[i].Values = renamed
	}
}
