package entity

// ServiceCatalogEntry entrada del catálogo de servicios adicionales.
// SAPCode es el código de material/servicio que recibe el ERP.
type ServiceCatalogEntry struct {
	ID          string
	SAPCode     string
	Description string
	Module      string // vacío = aplica a todos los módulos
	Active      bool
}
