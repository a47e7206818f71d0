// Package sap genera el XML de interfaz de facturas para el ERP y lo entrega por HTTP.
package sap

import (
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	domsap "github.com/jhoicas/logistica-api/internal/domain/sap"
	"github.com/shopspring/decimal"
)

// Document contexto con todos los datos necesarios para serializar una factura.
type Document struct {
	Invoice        *entity.Invoice
	Client         *entity.Client
	Lines          []domsap.LineItem
	SurchargeTotal decimal.Decimal
	GeneratedAt    time.Time // único campo que varía entre ejecuciones
}
