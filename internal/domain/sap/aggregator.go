// Package sap agrupa los registros de una factura en líneas del esquema de interfaz SAP.
// El ERP factura por cantidad × precio unitario de cada servicio distinguible, no por registro.
package sap

import (
	"fmt"
	"strings"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	pkgsap "github.com/jhoicas/logistica-api/pkg/sap"
	"github.com/shopspring/decimal"
)

// LineItem una fila del documento de exportación.
type LineItem struct {
	LineNumber        int
	Kind              string
	ServiceCode       string
	Description       string
	Quantity          int64
	UnitPrice         decimal.Decimal
	TotalPrice        decimal.Decimal
	ReferenceDocument string
	FullEmpty         string
	RecordIDs         []string
}

// Input datos necesarios para agrupar. Records debe venir en el orden de la factura.
type Input struct {
	Module          string
	Type            string
	Records         []*entity.Record
	AdditionalLines []entity.AdditionalLine
	Catalog         map[string]*entity.ServiceCatalogEntry
	CustomsFeeRate  decimal.Decimal
}

// groupKey clave natural de agrupación: (servicio, precio unitario, lleno/vacío, documento).
type groupKey struct {
	service   string
	unitPrice string
	fullEmpty string
	reference string
}

type group struct {
	key       groupKey
	price     decimal.Decimal
	vessel    string
	recordIDs []string
}

// Aggregate produce la lista determinista de líneas: grupos en orden de primera aparición,
// luego recargos por volumen y al final las líneas adicionales manuales.
func Aggregate(in Input) ([]LineItem, error) {
	if len(in.Records) == 0 {
		return nil, domain.ErrNoBillableLines
	}
	var lines []LineItem
	switch in.Module {
	case entity.ModuleAgency:
		lines = aggregatePassThrough(in)
	default:
		lines = aggregateGrouped(in)
	}
	if s, ok := customsSurcharge(in); ok {
		lines = append(lines, s)
	}
	lines = append(lines, additionalLines(in)...)
	for i := range lines {
		lines[i].LineNumber = i + 1
	}
	return lines, nil
}

func defaultServiceCode(module, typ string) string {
	if code, ok := pkgsap.DefaultServiceCodes[module+"/"+typ]; ok {
		return code
	}
	return pkgsap.PlaceholderServiceCode
}

func serviceCodeOf(r *entity.Record) string {
	if r.Payload != nil && r.Payload.ServiceCode() != "" {
		return r.Payload.ServiceCode()
	}
	return defaultServiceCode(r.Module, r.Type)
}

// aggregateGrouped agrupa trucking (transporte y autoridad) y ship-chandler.
func aggregateGrouped(in Input) []LineItem {
	index := make(map[groupKey]int)
	var groups []*group
	for _, r := range in.Records {
		key := groupKey{service: serviceCodeOf(r), unitPrice: r.Price().String()}
		var vessel string
		switch p := r.Payload.(type) {
		case *entity.TruckingPayload:
			key.fullEmpty = p.FullEmpty
			key.reference = p.BLNumber
		case *entity.ShipchandlerPayload:
			key.reference = p.DeliveryNote
			vessel = p.Vessel
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &group{key: key, price: r.Price(), vessel: vessel})
		}
		groups[i].recordIDs = append(groups[i].recordIDs, r.ID)
	}

	lines := make([]LineItem, 0, len(groups))
	for _, g := range groups {
		qty := int64(len(g.recordIDs))
		lines = append(lines, LineItem{
			Kind:              pkgsap.LineKindService,
			ServiceCode:       g.key.service,
			Description:       groupDescription(in.Module, in.Type, qty, g),
			Quantity:          qty,
			UnitPrice:         g.price,
			TotalPrice:        g.price.Mul(decimal.NewFromInt(qty)),
			ReferenceDocument: g.key.reference,
			FullEmpty:         g.key.fullEmpty,
			RecordIDs:         g.recordIDs,
		})
	}
	return lines
}

func groupDescription(module, typ string, qty int64, g *group) string {
	switch module {
	case entity.ModuleTrucking:
		label := "Movimiento de contenedor"
		if typ == entity.TypeAuthority {
			label = "Gasto de autoridad"
		}
		desc := fmt.Sprintf("%d x %s", qty, label)
		if g.key.fullEmpty != "" {
			desc += " " + g.key.fullEmpty
		}
		if g.key.reference != "" {
			desc += " - BL " + g.key.reference
		}
		return desc
	case entity.ModuleShipchandler:
		desc := fmt.Sprintf("%d x Suministro", qty)
		if g.vessel != "" {
			desc += " " + g.vessel
		}
		if g.key.reference != "" {
			desc += " - Nota " + g.key.reference
		}
		return desc
	}
	return fmt.Sprintf("%d x Servicio", qty)
}

// aggregatePassThrough una línea por registro de tripulación más una línea agregada
// con la suma de los cargos adicionales planos.
func aggregatePassThrough(in Input) []LineItem {
	lines := make([]LineItem, 0, len(in.Records)+1)
	ancillary := decimal.Zero
	var ancillaryIDs []string
	for _, r := range in.Records {
		base := r.Price()
		desc := "Traslado de tripulación"
		var ref string
		if p, ok := r.Payload.(*entity.AgencyPayload); ok {
			base = p.BaseRate
			desc = fmt.Sprintf("Traslado %s %s → %s (%s)", p.CrewName, p.PickupLocation, p.DropoffLocation, p.ServiceDate.Format("2006-01-02"))
			ref = strings.TrimSpace(p.Vessel + " " + p.Voyage)
			if p.AncillaryFee.IsPositive() {
				ancillary = ancillary.Add(p.AncillaryFee)
				ancillaryIDs = append(ancillaryIDs, r.ID)
			}
		}
		lines = append(lines, LineItem{
			Kind:              pkgsap.LineKindService,
			ServiceCode:       serviceCodeOf(r),
			Description:       desc,
			Quantity:          1,
			UnitPrice:         base,
			TotalPrice:        base,
			ReferenceDocument: ref,
			RecordIDs:         []string{r.ID},
		})
	}
	if len(ancillaryIDs) > 0 {
		lines = append(lines, LineItem{
			Kind:        pkgsap.LineKindAncillary,
			ServiceCode: pkgsap.ServiceCrewAncillary,
			Description: fmt.Sprintf("Cargos adicionales (%d servicios)", len(ancillaryIDs)),
			Quantity:    1,
			UnitPrice:   ancillary,
			TotalPrice:  ancillary,
			RecordIDs:   ancillaryIDs,
		})
	}
	return lines
}

// customsSurcharge tasa por contenedor lleno: tarifa × cantidad de registros FULL.
func customsSurcharge(in Input) (LineItem, bool) {
	if !in.CustomsFeeRate.IsPositive() || in.Module != entity.ModuleTrucking {
		return LineItem{}, false
	}
	var ids []string
	for _, r := range in.Records {
		if p, ok := r.Payload.(*entity.TruckingPayload); ok && p.IsFull() {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return LineItem{}, false
	}
	qty := int64(len(ids))
	return LineItem{
		Kind:        pkgsap.LineKindSurcharge,
		ServiceCode: pkgsap.ServiceCustomsFee,
		Description: fmt.Sprintf("Tasa de administración aduanera (%d contenedores llenos)", qty),
		Quantity:    qty,
		UnitPrice:   in.CustomsFeeRate,
		TotalPrice:  in.CustomsFeeRate.Mul(decimal.NewFromInt(qty)),
		FullEmpty:   entity.ContainerFull,
		RecordIDs:   ids,
	}, true
}

// additionalLines resuelve el código SAP de cada línea manual; sin catálogo usa el placeholder.
func additionalLines(in Input) []LineItem {
	lines := make([]LineItem, 0, len(in.AdditionalLines))
	for _, l := range in.AdditionalLines {
		code := pkgsap.PlaceholderServiceCode
		desc := l.Description
		if e, ok := in.Catalog[l.ServiceID]; ok && e != nil {
			if e.SAPCode != "" {
				code = e.SAPCode
			}
			if desc == "" {
				desc = e.Description
			}
		}
		lines = append(lines, LineItem{
			Kind:        pkgsap.LineKindAdditional,
			ServiceCode: code,
			Description: desc,
			Quantity:    1,
			UnitPrice:   l.Amount,
			TotalPrice:  l.Amount,
		})
	}
	return lines
}

// Sum suma TotalPrice de las líneas del tipo indicado (todas si kinds está vacío).
func Sum(lines []LineItem, kinds ...string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if len(kinds) > 0 && !containsKind(kinds, l.Kind) {
			continue
		}
		total = total.Add(l.TotalPrice)
	}
	return total
}

func containsKind(kinds []string, k string) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
