package billing

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/domain/repository"
	infrasap "github.com/jhoicas/logistica-api/internal/infrastructure/sap"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta fn con repos de registros y facturas atados a una misma transacción.
// En almacenes sin transacciones multi-documento solo serializa; la compensación la hace el caso de uso.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		records repository.RecordRepository,
		invoices repository.InvoiceRepository,
	) error) error
}

// ExternalSender entrega el XML al ERP. La implementación concreta usa HTTP; en tests se inyecta un fake.
type ExternalSender interface {
	Send(ctx context.Context, invoiceNumber string, payload []byte) (*infrasap.DeliveryResult, error)
}

// Metrics observa el resultado de la finalización y la entrega.
type Metrics interface {
	InvoiceFinalized(module string)
	DeliveryAttempt(ok bool)
}

// Settings parámetros de facturación tomados de la configuración.
type Settings struct {
	TaxRate         decimal.Decimal
	Currency        string
	CustomsFeeRate  decimal.Decimal
	AuthorityPrefix string
}

type noopMetrics struct{}

func (noopMetrics) InvoiceFinalized(string) {}
func (noopMetrics) DeliveryAttempt(bool)    {}
