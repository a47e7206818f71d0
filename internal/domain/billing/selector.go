// Package billing contiene las reglas puras de selección y consolidación de registros
// en prefacturas. No accede a persistencia: recibe valores y devuelve valores nuevos.
package billing

import (
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CanSelect decide si record puede unirse a current.
//
//	(a) rechaza si el registro ya tiene factura;
//	(b) con selección vacía acepta solo registros completados;
//	(c) si no, exige completado, mismo cliente y mismo módulo/tipo que current[0] (el ancla).
//
// La validez se comprueba al seleccionar: quitar el ancla no revalida el resto.
func CanSelect(record *entity.Record, current []*entity.Record) bool {
	if record == nil || record.IsClaimed() {
		return false
	}
	if record.Status != entity.RecordStatusCompletado {
		return false
	}
	if len(current) == 0 {
		return true
	}
	anchor := current[0]
	return record.ClientID == anchor.ClientID &&
		record.Module == anchor.Module &&
		record.Type == anchor.Type
}

// SelectAll aplica CanSelect a cada candidato en orden, acumulando sobre current.
// El primer aceptado ancla cliente y tipo del lote cuando current está vacío.
// Devuelve los IDs aceptados de candidates (sin repetir los ya seleccionados).
func SelectAll(candidates, current []*entity.Record) []string {
	selection := make([]*entity.Record, len(current), len(current)+len(candidates))
	copy(selection, current)
	seen := make(map[string]struct{}, len(selection)+len(candidates))
	for _, r := range selection {
		seen[r.ID] = struct{}{}
	}
	accepted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if !CanSelect(c, selection) {
			continue
		}
		selection = append(selection, c)
		seen[c.ID] = struct{}{}
		accepted = append(accepted, c.ID)
	}
	return accepted
}

// Deselect quita id de la selección sin revalidar los restantes.
func Deselect(selection []*entity.Record, id string) []*entity.Record {
	out := make([]*entity.Record, 0, len(selection))
	for _, r := range selection {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// SelectionSummary estadísticas agregadas de una selección.
type SelectionSummary struct {
	Count    int
	ClientID string
	Module   string
	Type     string
	Subtotal decimal.Decimal
}

// Summarize calcula conteo, ancla y suma de precios de la selección.
func Summarize(selection []*entity.Record) SelectionSummary {
	s := SelectionSummary{Subtotal: decimal.Zero}
	for i, r := range selection {
		if i == 0 {
			s.ClientID, s.Module, s.Type = r.ClientID, r.Module, r.Type
		}
		s.Count++
		s.Subtotal = s.Subtotal.Add(r.Price())
	}
	return s
}
