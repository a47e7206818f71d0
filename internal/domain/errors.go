package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores de selección y consolidación.
var (
	ErrEmptySelection       = fmt.Errorf("%w: la selección está vacía", ErrInvalidInput)
	ErrMixedClient          = fmt.Errorf("%w: la selección mezcla clientes", ErrConflict)
	ErrMixedModule          = fmt.Errorf("%w: la selección mezcla módulos o tipos", ErrConflict)
	ErrRecordNotSelectable  = fmt.Errorf("%w: el registro no está completado", ErrConflict)
	ErrRecordAlreadyClaimed = fmt.Errorf("%w: el registro ya pertenece a otra prefactura", ErrConflict)
	ErrRecordLocked         = fmt.Errorf("%w: el registro está asociado a una factura", ErrConflict)
)

// Errores de facturación.
var (
	ErrInvoiceFinalized    = fmt.Errorf("%w: la factura ya fue finalizada", ErrConflict)
	ErrInvalidNumberFormat = errors.New("formato de número de factura inválido")
	ErrNoBillableLines     = errors.New("no hay registros facturables para generar el XML")
	ErrExternalDelivery    = errors.New("fallo en la entrega al sistema externo")
)

// Errores de ingesta.
var (
	ErrUnresolvedClients = fmt.Errorf("%w: clientes no resueltos", ErrInvalidInput)
	ErrJobTerminal       = fmt.Errorf("%w: el job ya terminó", ErrConflict)
)

// UnresolvedClientsError lista las filas cuyo cliente no pudo resolverse.
type UnresolvedClientsError struct {
	Rows []int
}

func (e *UnresolvedClientsError) Error() string {
	parts := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		parts[i] = strconv.Itoa(r)
	}
	return ErrUnresolvedClients.Error() + " (filas " + strings.Join(parts, ", ") + ")"
}

// Unwrap permite errors.Is(err, ErrUnresolvedClients).
func (e *UnresolvedClientsError) Unwrap() error { return ErrUnresolvedClients }
