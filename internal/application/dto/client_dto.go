package dto

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	TaxID   string `json:"tax_id" validate:"required"`
	SAPCode string `json:"sap_code,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	SAPCode string `json:"sap_code,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// ServiceCatalogResponse entrada del catálogo de servicios adicionales.
type ServiceCatalogResponse struct {
	ID          string `json:"id"`
	SAPCode     string `json:"sap_code"`
	Description string `json:"description"`
	Module      string `json:"module,omitempty"`
}
