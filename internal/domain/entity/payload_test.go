package entity_test

import (
	"testing"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_TruckingConAlias(t *testing.T) {
	p, err := entity.DecodePayload(entity.ModuleTrucking, map[string]string{
		" Contenedor ": "mscu1234567",
		"BL":           "bl-77",
		"Fecha":        "15/03/2024",
		"FE":           "lleno",
		"Precio":       "$1,250.50",
		"origin":       "Balboa",
		"destination":  "Colón",
	})
	require.NoError(t, err)
	tp, ok := p.(*entity.TruckingPayload)
	require.True(t, ok)
	assert.Equal(t, "MSCU1234567", tp.ContainerID)
	assert.Equal(t, "BL-77", tp.BLNumber)
	assert.Equal(t, entity.ContainerFull, tp.FullEmpty)
	assert.True(t, tp.Amount.Equal(decimal.RequireFromString("1250.50")))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tp.MoveDate)
	assert.Equal(t, "MSCU1234567|2024-03-15|BALBOA|COLÓN", tp.NaturalKey())
}

func TestDecodePayload_Errores(t *testing.T) {
	_, err := entity.DecodePayload(entity.ModuleTrucking, map[string]string{
		"container_id": "X1", "move_date": "2024-01-01", "full_empty": "medio",
	})
	assert.Error(t, err)

	_, err = entity.DecodePayload(entity.ModuleShipchandler, map[string]string{
		"vessel": "ANNA", "delivery_note": "N-1", "delivery_date": "2024-01-01", "amount": "abc",
	})
	assert.Error(t, err)

	_, err = entity.DecodePayload(entity.ModuleAgency, map[string]string{"crew_name": "X"})
	assert.Error(t, err)

	_, err = entity.DecodePayload("aereo", map[string]string{})
	assert.Error(t, err)
}

func TestAgencyPayload_PrecioIncluyeCargos(t *testing.T) {
	p, err := entity.DecodePayload(entity.ModuleAgency, map[string]string{
		"crew_name": "Ana Ruiz", "vessel": "msc anna", "service_date": "2024-02-10",
		"pickup": "Hotel", "dropoff": "Muelle", "base_rate": "40", "ancillary_fee": "7.5",
	})
	require.NoError(t, err)
	assert.True(t, p.Price().Equal(decimal.RequireFromString("47.5")))
	assert.Equal(t, entity.ModuleAgency, p.Module())
}

func TestMarshalUnmarshalPayload(t *testing.T) {
	orig := &entity.ShipchandlerPayload{
		Vessel: "ANNA", DeliveryNote: "N-9", DeliveryDate: time.Date(2024, 4, 4, 0, 0, 0, 0, time.UTC),
		Amount: decimal.RequireFromString("88.10"),
	}
	data, err := entity.MarshalPayload(orig)
	require.NoError(t, err)

	back, err := entity.UnmarshalPayload(entity.ModuleShipchandler, data)
	require.NoError(t, err)
	sp := back.(*entity.ShipchandlerPayload)
	assert.Equal(t, orig.NaturalKey(), sp.NaturalKey())
	assert.True(t, sp.Amount.Equal(orig.Amount))

	_, err = entity.UnmarshalPayload("otro", data)
	assert.Error(t, err)
}

func TestIngestionJob_RecomputeProgress(t *testing.T) {
	j := &entity.IngestionJob{TotalRecords: 3, ProcessedRecords: 1}
	j.RecomputeProgress()
	assert.Equal(t, 33, j.Progress)
	j.ProcessedRecords = 2
	j.RecomputeProgress()
	assert.Equal(t, 67, j.Progress)
	j.ProcessedRecords = 3
	j.RecomputeProgress()
	assert.Equal(t, 100, j.Progress)
}

func TestDecodePayload_FormatosDeMonto(t *testing.T) {
	casos := []struct {
		monto string
		want  string
	}{
		{"100,50", "100.50"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"$ 1,250.50", "1250.50"},
		{"1,234,567", "1234567"},
		{"1.234.567", "1234567"},
		{"12.5", "12.5"},
	}
	for _, c := range casos {
		t.Run(c.monto, func(t *testing.T) {
			p, err := entity.DecodePayload(entity.ModuleTrucking, map[string]string{
				"container_id": "MSCU1", "move_date": "2024-01-01", "full_empty": "FULL", "precio": c.monto,
			})
			require.NoError(t, err)
			assert.True(t, p.Price().Equal(decimal.RequireFromString(c.want)), "obtenido %s", p.Price())
		})
	}
}

func TestDecodePayload_MontoAmbiguoSeRechaza(t *testing.T) {
	for _, monto := range []string{"1,250", "1.2.3", "1,23,456.00", "1.234,5.6"} {
		_, err := entity.DecodePayload(entity.ModuleTrucking, map[string]string{
			"container_id": "MSCU1", "move_date": "2024-01-01", "full_empty": "FULL", "amount": monto,
		})
		assert.Error(t, err, monto)
	}
}
