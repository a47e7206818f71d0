package billing_test

import (
	"testing"

	"github.com/jhoicas/logistica-api/internal/domain/billing"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, client, module, typ, status, amount string) *entity.Record {
	return &entity.Record{
		ID: id, ClientID: client, Module: module, Type: typ, Status: status,
		Payload: &entity.TruckingPayload{Amount: decimal.RequireFromString(amount)},
	}
}

func completed(id, client string) *entity.Record {
	return rec(id, client, entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusCompletado, "100")
}

func TestCanSelect_Reglas(t *testing.T) {
	anchor := completed("r1", "c1")

	claimed := completed("r2", "c1")
	claimed.InvoiceID = "inv-1"
	assert.False(t, billing.CanSelect(claimed, nil), "registro con factura nunca es seleccionable")

	pending := rec("r3", "c1", entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusPendiente, "10")
	assert.False(t, billing.CanSelect(pending, nil))
	assert.False(t, billing.CanSelect(pending, []*entity.Record{anchor}))

	assert.True(t, billing.CanSelect(anchor, nil))
	assert.True(t, billing.CanSelect(completed("r4", "c1"), []*entity.Record{anchor}))
	assert.False(t, billing.CanSelect(completed("r5", "c2"), []*entity.Record{anchor}))

	authority := rec("r6", "c1", entity.ModuleTrucking, entity.TypeAuthority, entity.RecordStatusCompletado, "10")
	assert.False(t, billing.CanSelect(authority, []*entity.Record{anchor}), "mismo módulo pero distinto tipo")

	agency := rec("r7", "c1", entity.ModuleAgency, entity.TypeCrew, entity.RecordStatusCompletado, "10")
	assert.False(t, billing.CanSelect(agency, []*entity.Record{anchor}))
}

// Toda selección obtenida por SelectAll es homogénea en cliente, módulo y tipo.
func TestSelectAll_SeleccionHomogenea(t *testing.T) {
	candidates := []*entity.Record{
		rec("p", "c1", entity.ModuleTrucking, entity.TypeTransport, entity.RecordStatusPendiente, "5"),
		completed("a", "c2"),
		completed("b", "c1"),
		completed("c", "c2"),
		rec("d", "c2", entity.ModuleTrucking, entity.TypeAuthority, entity.RecordStatusCompletado, "5"),
		completed("a", "c2"),
	}
	ids := billing.SelectAll(candidates, nil)
	assert.Equal(t, []string{"a", "c"}, ids, "el primer aceptado ancla cliente c2")
}

func TestSelectAll_RespetaSeleccionActual(t *testing.T) {
	current := []*entity.Record{completed("x", "c1")}
	ids := billing.SelectAll([]*entity.Record{completed("x", "c1"), completed("y", "c1"), completed("z", "c9")}, current)
	assert.Equal(t, []string{"y"}, ids)
}

// Quitar el ancla no revalida el resto: la selección queda como estaba salvo el quitado.
func TestDeselect_NoRevalida(t *testing.T) {
	a, b := completed("a", "c1"), completed("b", "c1")
	sel := billing.Deselect([]*entity.Record{a, b}, "a")
	require.Len(t, sel, 1)
	assert.Equal(t, "b", sel[0].ID)

	// El nuevo ancla pasa a ser b para las selecciones siguientes
	assert.True(t, billing.CanSelect(completed("c", "c1"), sel))
	assert.False(t, billing.CanSelect(completed("d", "c2"), sel))
}

func TestSummarize(t *testing.T) {
	s := billing.Summarize([]*entity.Record{completed("a", "c1"), completed("b", "c1")})
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "c1", s.ClientID)
	assert.Equal(t, entity.TypeTransport, s.Type)
	assert.True(t, s.Subtotal.Equal(decimal.NewFromInt(200)))

	empty := billing.Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.True(t, empty.Subtotal.IsZero())
}
