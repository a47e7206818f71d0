// Package spreadsheet convierte archivos XLSX y CSV en filas de ingesta.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var (
	clientHeaders = []string{"client", "cliente", "client_id", "customer", "ruc"}
	typeHeaders   = []string{"type", "tipo"}
)

// Parse elige el lector según la extensión del archivo (.xlsx o .csv).
func Parse(filename string, r io.Reader) ([]dto.IngestionRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	case ".csv", ".txt":
		return ParseCSV(r)
	}
	return nil, fmt.Errorf("%w: formato no soportado %q", domain.ErrInvalidInput, filepath.Ext(filename))
}

// ParseXLSX lee la primera hoja. La primera fila no vacía es la cabecera.
func ParseXLSX(r io.Reader) ([]dto.IngestionRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: xlsx ilegible: %v", domain.ErrInvalidInput, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: el libro no tiene hojas", domain.ErrInvalidInput)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheet, err)
	}
	return toIngestionRows(rows)
}

// ParseCSV acepta UTF-8 (con o sin BOM) o ISO-8859-1, separado por coma o punto y coma.
func ParseCSV(r io.Reader) ([]dto.IngestionRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		raw, _, err = transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("%w: codificación inválida: %v", domain.ErrInvalidInput, err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv inválido: %v", domain.ErrInvalidInput, err)
	}
	return toIngestionRows(rows)
}

func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

func toIngestionRows(rows [][]string) ([]dto.IngestionRow, error) {
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("%w: el archivo está vacío", domain.ErrInvalidInput)
	}

	header := make([]string, len(rows[start]))
	for i, h := range rows[start] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	clientCol := indexOf(header, clientHeaders)
	if clientCol < 0 {
		return nil, fmt.Errorf("%w: falta la columna de cliente", domain.ErrInvalidInput)
	}
	typeCol := indexOf(header, typeHeaders)

	out := make([]dto.IngestionRow, 0, len(rows)-start-1)
	for _, cells := range rows[start+1:] {
		if isBlank(cells) {
			continue
		}
		row := dto.IngestionRow{Values: make(map[string]string, len(header))}
		for i, name := range header {
			if name == "" || i >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[i])
			switch i {
			case clientCol:
				row.Client = v
			case typeCol:
				row.Type = v
			default:
				row.Values[name] = v
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func indexOf(header, names []string) int {
	for _, n := range names {
		for i, h := range header {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
