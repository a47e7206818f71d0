package dto

// DefaultLimit tamaño de página cuando el cliente no envía limit.
const DefaultLimit = 20

// PageRequest ventana de un listado (?limit=&offset=).
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage completa limit y offset ausentes.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página. HasMore es una estimación: la página vino llena.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// ListResponse cuerpo de los listados paginados.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// NewListResponse arma la respuesta a partir de la página pedida.
func NewListResponse[T any](items []T, limit, offset int) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items: items,
		Page: PageResponse{
			Limit:   limit,
			Offset:  offset,
			Count:   len(items),
			HasMore: limit > 0 && len(items) == limit,
		},
	}
}

// ErrorResponse cuerpo de error HTTP. Rows lista las filas con cliente no resuelto.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Rows    []int  `json:"rows,omitempty"`
}
