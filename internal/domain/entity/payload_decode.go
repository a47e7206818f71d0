package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de fecha aceptados en hojas de cálculo (ISO, día/mes/año y el de excelize).
var rowDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"01-02-06",
	time.RFC3339,
}

// DecodePayload convierte una fila de hoja de cálculo (columna → texto) en la variante
// tipada del módulo. Las claves se comparan en minúsculas y sin espacios.
func DecodePayload(module string, values map[string]string) (RecordPayload, error) {
	get := rowGetter(values)
	var p RecordPayload
	switch module {
	case ModuleTrucking:
		amount, err := parseAmount(get("amount", "price", "precio"))
		if err != nil {
			return nil, err
		}
		date, err := parseRowDate(get("move_date", "date", "fecha"))
		if err != nil {
			return nil, err
		}
		p = &TruckingPayload{
			ContainerID:   strings.ToUpper(get("container_id", "container", "contenedor")),
			ContainerSize: get("container_size", "size"),
			BLNumber:      strings.ToUpper(get("bl_number", "bl")),
			Origin:        get("origin", "from", "desde"),
			Destination:   get("destination", "to", "hasta"),
			MoveDate:      date,
			FullEmpty:     normalizeFullEmpty(get("full_empty", "fe", "lleno_vacio")),
			Service:       get("service_code", "service", "servicio"),
			Amount:        amount,
			DriverName:    get("driver_name", "driver", "conductor"),
			Plate:         get("plate", "placa"),
		}
	case ModuleAgency:
		base, err := parseAmount(get("base_rate", "price", "precio"))
		if err != nil {
			return nil, err
		}
		fee, err := parseAmount(get("ancillary_fee", "extra", "waiting_fee"))
		if err != nil {
			return nil, err
		}
		date, err := parseRowDate(get("service_date", "date", "fecha"))
		if err != nil {
			return nil, err
		}
		p = &AgencyPayload{
			CrewName:        get("crew_name", "crew", "tripulante"),
			CrewRank:        get("crew_rank", "rank"),
			Vessel:          strings.ToUpper(get("vessel", "buque")),
			Voyage:          get("voyage", "viaje"),
			PickupLocation:  get("pickup_location", "pickup", "from"),
			DropoffLocation: get("dropoff_location", "dropoff", "to"),
			ServiceDate:     date,
			Service:         get("service_code", "service", "servicio"),
			BaseRate:        base,
			AncillaryFee:    fee,
		}
	case ModuleShipchandler:
		amount, err := parseAmount(get("amount", "price", "precio"))
		if err != nil {
			return nil, err
		}
		date, err := parseRowDate(get("delivery_date", "date", "fecha"))
		if err != nil {
			return nil, err
		}
		p = &ShipchandlerPayload{
			Vessel:       strings.ToUpper(get("vessel", "buque")),
			DeliveryNote: strings.ToUpper(get("delivery_note", "note", "remision")),
			Description:  get("description", "descripcion"),
			DeliveryDate: date,
			Service:      get("service_code", "service", "servicio"),
			Amount:       amount,
		}
	default:
		return nil, fmt.Errorf("módulo desconocido: %q", module)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func rowGetter(values map[string]string) func(keys ...string) string {
	norm := make(map[string]string, len(values))
	for k, v := range values {
		norm[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return func(keys ...string) string {
		for _, k := range keys {
			if v, ok := norm[k]; ok && v != "" {
				return v
			}
		}
		return ""
	}
}

// parseAmount acepta "1,234.56", "1.234,56" y "100,50". El separador decimal es el último
// de los dos que aparezca; una sola coma seguida de tres dígitos ("1,250") es ambigua y se rechaza.
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	normalized, err := normalizeAmount(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q: %w", raw, err)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", raw)
	}
	return d, nil
}

func normalizeAmount(s string) (string, error) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	lastDot, lastComma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")

	var decimalSep, groupSep string
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			decimalSep, groupSep = ",", "."
		} else {
			decimalSep, groupSep = ".", ","
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			groupSep = ","
		} else if len(s)-lastComma-1 == 3 {
			return "", fmt.Errorf("separador ambiguo")
		} else {
			decimalSep = ","
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			groupSep = "."
		} else {
			decimalSep = "."
		}
	}

	intPart, frac := s, ""
	if decimalSep != "" {
		i := strings.LastIndex(s, decimalSep)
		intPart, frac = s[:i], s[i+1:]
		if strings.ContainsAny(frac, ".,") {
			return "", fmt.Errorf("separadores mezclados")
		}
	}
	if groupSep != "" && strings.Contains(intPart, groupSep) {
		groups := strings.Split(intPart, groupSep)
		if len(groups[0]) == 0 || len(groups[0]) > 3 {
			return "", fmt.Errorf("agrupación de miles inválida")
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return "", fmt.Errorf("agrupación de miles inválida")
			}
		}
		intPart = strings.Join(groups, "")
	}
	if strings.ContainsAny(intPart, ".,") {
		return "", fmt.Errorf("separadores mezclados")
	}
	if frac == "" {
		return sign + intPart, nil
	}
	return sign + intPart + "." + frac, nil
}

func parseRowDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range rowDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida %q", s)
}

func normalizeFullEmpty(s string) string {
	switch strings.ToUpper(s) {
	case "F", "FULL", "LLENO", "L":
		return ContainerFull
	case "E", "EMPTY", "VACIO", "VACÍO", "V":
		return ContainerEmpty
	}
	return strings.ToUpper(s)
}
