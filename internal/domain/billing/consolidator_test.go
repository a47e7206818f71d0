package billing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain"
	"github.com/jhoicas/logistica-api/internal/domain/billing"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meta = billing.DraftMeta{
	InvoiceNumber: "F-001",
	Currency:      "USD",
	TaxRate:       decimal.RequireFromString("0.07"),
	CreatedBy:     "u1",
	Now:           time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
}

// 3 registros de 100, 100 y 150 más una línea de 25 con 7 %:
// subtotal 375.00, impuesto 26.25, total 401.25.
func TestConsolidate_Totales(t *testing.T) {
	sel := []*entity.Record{
		completed("a", "c1"),
		completed("b", "c1"),
		rec("c", "c1", entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusCompletado, "150"),
	}
	extra := []entity.AdditionalLine{{ServiceID: "svc", Description: "Almacenaje", Amount: decimal.NewFromInt(25)}}

	inv, err := billing.Consolidate(sel, extra, meta)
	require.NoError(t, err)
	assert.Equal(t, "375", inv.Subtotal.String())
	assert.Equal(t, "26.25", inv.Tax.String())
	assert.Equal(t, "401.25", inv.Total.String())
	assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.Tax)))
	assert.Equal(t, entity.InvoiceStatusBorrador, inv.Status)
	assert.Equal(t, []string{"a", "b", "c"}, inv.RecordIDs)
	assert.Equal(t, "c1", inv.ClientID)
	assert.NotEmpty(t, inv.ID)

	// Consolidar no toca los registros
	for _, r := range sel {
		assert.Empty(t, r.InvoiceID)
		assert.Equal(t, entity.RecordStatusCompletado, r.Status)
	}
}

func TestComputeTotals_RedondeoSiempreCuadra(t *testing.T) {
	rates := []string{"0", "0.07", "0.19", "0.125"}
	amounts := []string{"0.01", "33.333", "99.995", "1234.5678"}
	for _, rt := range rates {
		for _, a := range amounts {
			r := rec("x", "c1", entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusCompletado, a)
			tot := billing.ComputeTotals([]*entity.Record{r}, nil, decimal.RequireFromString(rt))
			assert.True(t, tot.Total.Equal(tot.Subtotal.Add(tot.Tax)), "rate=%s amount=%s", rt, a)
			assert.LessOrEqual(t, -tot.Total.Exponent(), int32(2))
		}
	}
}

func TestConsolidate_Errores(t *testing.T) {
	_, err := billing.Consolidate(nil, nil, meta)
	assert.True(t, errors.Is(err, domain.ErrEmptySelection))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = billing.Consolidate([]*entity.Record{completed("a", "c1"), completed("b", "c2")}, nil, meta)
	assert.True(t, errors.Is(err, domain.ErrMixedClient))

	mixed := rec("b", "c1", entity.ModuleTrucking, entity.TypeAuthority, entity.RecordStatusCompletado, "1")
	_, err = billing.Consolidate([]*entity.Record{completed("a", "c1"), mixed}, nil, meta)
	assert.True(t, errors.Is(err, domain.ErrMixedModule))

	pending := rec("b", "c1", entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusPendiente, "1")
	_, err = billing.Consolidate([]*entity.Record{completed("a", "c1"), pending}, nil, meta)
	assert.True(t, errors.Is(err, domain.ErrRecordNotSelectable))

	claimed := completed("b", "c1")
	claimed.InvoiceID = "otra"
	_, err = billing.Consolidate([]*entity.Record{completed("a", "c1"), claimed}, nil, meta)
	assert.True(t, errors.Is(err, domain.ErrRecordAlreadyClaimed))

	_, err = billing.Consolidate([]*entity.Record{completed("a", "c1")},
		[]entity.AdditionalLine{{Description: "x", Amount: decimal.NewFromInt(-1)}}, meta)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestValidateInvoiceNumber(t *testing.T) {
	transport := &entity.Invoice{Module: entity.ModuleTrucking, Type: entity.TypeTransport}
	authority := &entity.Invoice{Module: entity.ModuleTrucking, Type: entity.TypeAuthority}

	assert.True(t, errors.Is(billing.ValidateInvoiceNumber(transport, "  ", "AUT-"), domain.ErrInvalidInput))
	assert.NoError(t, billing.ValidateInvoiceNumber(transport, "F-100", "AUT-"))
	assert.NoError(t, billing.ValidateInvoiceNumber(authority, "AUT-100", "AUT-"))
	assert.True(t, errors.Is(billing.ValidateInvoiceNumber(authority, "F-100", "AUT-"), domain.ErrInvalidNumberFormat))
	assert.True(t, errors.Is(billing.ValidateInvoiceNumber(authority, "AUT-", "AUT-"), domain.ErrInvalidNumberFormat))
}
