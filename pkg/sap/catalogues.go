// Package sap contiene catálogos y constantes del esquema de interfaz de facturas SAP
// (versión de esquema 1.0 acordada con el equipo de integración).
package sap

// =============================================================================
// Esquema de interfaz
// =============================================================================

const (
	SchemaNamespace = "urn:logistica:sap:invoice:v1"
	SchemaVersion   = "1.0"
)

// =============================================================================
// Tipos de documento por módulo (campo Header/DocumentType)
// =============================================================================

const (
	DocTypeTransport = "ZTRK" // Transporte de contenedores
	DocTypeAuthority = "ZAUT" // Gastos de autoridad
	DocTypeCrew      = "ZAGY" // Transporte de tripulación
	DocTypeSupply    = "ZSHC" // Ship-chandler
)

// DocumentTypes mapea "módulo/tipo" al tipo de documento SAP.
var DocumentTypes = map[string]string{
	"trucking/transport":  DocTypeTransport,
	"trucking/authority":  DocTypeAuthority,
	"agency/crew":         DocTypeCrew,
	"shipchandler/supply": DocTypeSupply,
}

// =============================================================================
// Códigos de servicio (material SAP)
// =============================================================================

const (
	// PlaceholderServiceCode se usa cuando una línea adicional no tiene entrada de catálogo.
	// SAP la deja en la bandeja de revisión en lugar de rechazar el documento.
	PlaceholderServiceCode = "ZZ-PEND"

	ServiceTransportDefault = "TRK-001" // Movimiento de contenedor
	ServiceAuthorityDefault = "AUT-001" // Gasto de autoridad
	ServiceCrewDefault      = "AGY-001" // Traslado de tripulación
	ServiceCrewAncillary    = "AGY-900" // Cargos adicionales (espera, nocturno)
	ServiceSupplyDefault    = "SHC-001" // Suministro a buque
	ServiceCustomsFee       = "ADM-TI"  // Tasa de aduana/administración por contenedor lleno
)

// DefaultServiceCodes código por defecto cuando el registro no trae uno.
var DefaultServiceCodes = map[string]string{
	"trucking/transport":  ServiceTransportDefault,
	"trucking/authority":  ServiceAuthorityDefault,
	"agency/crew":         ServiceCrewDefault,
	"shipchandler/supply": ServiceSupplyDefault,
}

// =============================================================================
// Tipos de línea (atributo LineItem/@kind)
// =============================================================================

const (
	LineKindService    = "service"
	LineKindAncillary  = "ancillary"
	LineKindSurcharge  = "surcharge"
	LineKindAdditional = "additional"
)
