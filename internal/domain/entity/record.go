package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Módulos de negocio que generan registros facturables.
const (
	ModuleTrucking     = "trucking"
	ModuleAgency       = "agency"
	ModuleShipchandler = "shipchandler"
)

// Tipos de registro dentro de cada módulo. La selección exige mismo módulo y tipo.
const (
	TypeTransport = "transport" // trucking: movimiento de contenedor
	TypeAuthority = "authority" // trucking: gastos de autoridad (prefijo reservado)
	TypeCrew      = "crew"      // agency: transporte de tripulación
	TypeSupply    = "supply"    // shipchandler: entrega a buque
)

// Estados del ciclo de vida de un registro.
const (
	RecordStatusPendiente    = "pendiente"
	RecordStatusCompletado   = "completado"
	RecordStatusPrefacturado = "prefacturado"
	RecordStatusFacturado    = "facturado"
)

// Record representa un evento de servicio facturable.
// InvoiceID vacío equivale a "sin prefactura".
type Record struct {
	ID        string
	Module    string
	Type      string
	ClientID  string
	Status    string
	InvoiceID string
	Payload   RecordPayload
	DedupKey  string // SHA-256 de módulo|cliente|clave natural
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Price devuelve el precio facturable del registro (cero si no tiene payload).
func (r *Record) Price() decimal.Decimal {
	if r == nil || r.Payload == nil {
		return decimal.Zero
	}
	return r.Payload.Price()
}

// IsClaimed indica si el registro ya pertenece a una prefactura o factura.
func (r *Record) IsClaimed() bool {
	return r.InvoiceID != ""
}

// ValidModule indica si el módulo es conocido.
func ValidModule(module string) bool {
	switch module {
	case ModuleTrucking, ModuleAgency, ModuleShipchandler:
		return true
	}
	return false
}

// DefaultType devuelve el tipo por defecto de un módulo.
func DefaultType(module string) string {
	switch module {
	case ModuleTrucking:
		return TypeTransport
	case ModuleAgency:
		return TypeCrew
	case ModuleShipchandler:
		return TypeSupply
	}
	return ""
}

// ValidType indica si el tipo pertenece al módulo.
func ValidType(module, typ string) bool {
	switch module {
	case ModuleTrucking:
		return typ == TypeTransport || typ == TypeAuthority
	case ModuleAgency:
		return typ == TypeCrew
	case ModuleShipchandler:
		return typ == TypeSupply
	}
	return false
}

// RecordFilter filtros para listados de registros.
type RecordFilter struct {
	Module   string
	Status   string
	ClientID string
	Limit    int
	Offset   int
}
