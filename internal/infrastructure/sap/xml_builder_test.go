package sap

import (
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	domsap "github.com/jhoicas/logistica-api/internal/domain/sap"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument(generated time.Time) *Document {
	issue := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{
		ID: "inv-1", InvoiceNumber: "F-100", ClientID: "c1",
		Module: entity.ModuleTrucking, Type: entity.TypeTransport,
		RecordIDs: []string{"r1", "r2", "r3"},
		Subtotal:  decimal.RequireFromString("300"), Tax: decimal.RequireFromString("21"),
		Total: decimal.RequireFromString("321"), Currency: "USD", IssueDate: &issue,
	}
	records := []*entity.Record{
		{ID: "r1", Module: entity.ModuleTrucking, Type: entity.TypeTransport, Payload: &entity.TruckingPayload{BLNumber: "BL-1", FullEmpty: entity.ContainerFull, Amount: decimal.NewFromInt(100)}},
		{ID: "r2", Module: entity.ModuleTrucking, Type: entity.TypeTransport, Payload: &entity.TruckingPayload{BLNumber: "BL-1", FullEmpty: entity.ContainerFull, Amount: decimal.NewFromInt(100)}},
		{ID: "r3", Module: entity.ModuleTrucking, Type: entity.TypeTransport, Payload: &entity.TruckingPayload{BLNumber: "BL-2", FullEmpty: entity.ContainerEmpty, Amount: decimal.NewFromInt(100)}},
	}
	lines, _ := domsap.Aggregate(domsap.Input{Module: inv.Module, Type: inv.Type, Records: records})
	return &Document{
		Invoice:     inv,
		Client:      &entity.Client{ID: "c1", Name: "Naviera & Cía", TaxID: "155-1", SAPCode: "D100"},
		Lines:       lines,
		GeneratedAt: generated,
	}
}

func TestXMLBuilder_RecordCountSoloFacturables(t *testing.T) {
	doc := testDocument(time.Now())
	// r3 fue liberado: la factura aún lo lista, las líneas no
	records := []*entity.Record{
		{ID: "r1", Module: entity.ModuleTrucking, Type: entity.TypeTransport, Payload: &entity.TruckingPayload{BLNumber: "BL-1", FullEmpty: entity.ContainerFull, Amount: decimal.NewFromInt(100)}},
		{ID: "r2", Module: entity.ModuleTrucking, Type: entity.TypeTransport, Payload: &entity.TruckingPayload{BLNumber: "BL-1", FullEmpty: entity.ContainerFull, Amount: decimal.NewFromInt(100)}},
	}
	lines, err := domsap.Aggregate(domsap.Input{Module: entity.ModuleTrucking, Type: entity.TypeTransport, Records: records})
	require.NoError(t, err)
	doc.Lines = lines

	out, err := NewXMLBuilder("1000", "LOGISTICA").Build(doc)
	require.NoError(t, err)
	x := etree.NewDocument()
	require.NoError(t, x.ReadFromBytes(out))
	assert.Equal(t, "2", x.Root().FindElement("./Header/RecordCount").Text())
	assert.Len(t, doc.Invoice.RecordIDs, 3)
}

func TestXMLBuilder_Estructura(t *testing.T) {
	out, err := NewXMLBuilder("1000", "LOGISTICA").Build(testDocument(time.Now()))
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	assert.Equal(t, "SAPInvoice", root.Tag)
	assert.Equal(t, "1.0", root.SelectAttrValue("schemaVersion", ""))

	assert.Equal(t, "F-100", root.FindElement("./Header/InvoiceNumber").Text())
	assert.Equal(t, "ZTRK", root.FindElement("./Header/DocumentType").Text())
	assert.Equal(t, "Naviera & Cía", root.FindElement("./Header/ClientName").Text())
	assert.Equal(t, "2024-06-10", root.FindElement("./Header/IssueDate").Text())
	assert.Equal(t, "321.00", root.FindElement("./Header/Total").Text())
	assert.Equal(t, "3", root.FindElement("./Header/RecordCount").Text())

	items := root.FindElements("./LineItems/LineItem")
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].SelectAttrValue("lineNumber", ""))
	assert.Equal(t, "2", items[0].FindElement("Quantity").Text())
	assert.Equal(t, "200.00", items[0].FindElement("TotalPrice").Text())
	assert.Equal(t, "BL-1", items[0].FindElement("ReferenceDocument").Text())
}

func TestXMLBuilder_SinLineas(t *testing.T) {
	d := testDocument(time.Now())
	d.Lines = nil
	_, err := NewXMLBuilder("1000", "X").Build(d)
	assert.Error(t, err)
}

// Dos generaciones solo difieren en GeneratedAt; el digest es idéntico.
func TestContentDigest_Estable(t *testing.T) {
	b := NewXMLBuilder("1000", "LOGISTICA")
	first, err := b.Build(testDocument(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	second, err := b.Build(testDocument(time.Date(2025, 2, 2, 9, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.NotEqual(t, string(first), string(second))

	d1, err := ContentDigest(first)
	require.NoError(t, err)
	d2, err := ContentDigest(second)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	changed := testDocument(time.Now())
	changed.Invoice.InvoiceNumber = "F-101"
	third, err := b.Build(changed)
	require.NoError(t, err)
	d3, err := ContentDigest(third)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestContentDigest_XMLInvalido(t *testing.T) {
	_, err := ContentDigest([]byte(""))
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "sap:"))
}
