package sap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	domsap "github.com/jhoicas/logistica-api/internal/domain/sap"
	pkgsap "github.com/jhoicas/logistica-api/pkg/sap"
	"github.com/shopspring/decimal"
)

// XMLBuilder construye el documento SAPInvoice. Es puro: la salida solo depende del Document.
type XMLBuilder struct {
	companyCode string
	senderID    string
}

// NewXMLBuilder crea el builder con los datos del emisor.
func NewXMLBuilder(companyCode, senderID string) *XMLBuilder {
	return &XMLBuilder{companyCode: companyCode, senderID: senderID}
}

// Build genera el []byte del documento según el esquema de interfaz 1.0.
func (b *XMLBuilder) Build(doc *Document) ([]byte, error) {
	if doc == nil || doc.Invoice == nil || doc.Client == nil {
		return nil, fmt.Errorf("sap: faltan invoice o client en el documento")
	}
	if len(doc.Lines) == 0 {
		return nil, fmt.Errorf("sap: documento sin líneas")
	}
	inv := doc.Invoice

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "SAPInvoice"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns"}, Value: pkgsap.SchemaNamespace},
			{Name: xml.Name{Local: "schemaVersion"}, Value: pkgsap.SchemaVersion},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, err
	}

	// ---- Header
	header := xml.StartElement{Name: xml.Name{Local: "Header"}}
	_ = enc.EncodeToken(header)
	writeElem(enc, "InvoiceNumber", inv.InvoiceNumber)
	writeElem(enc, "DocumentType", documentType(inv))
	writeElem(enc, "CompanyCode", b.companyCode)
	writeElem(enc, "SenderID", b.senderID)
	writeElem(enc, "ClientSAPCode", doc.Client.SAPCode)
	writeElem(enc, "ClientTaxID", doc.Client.TaxID)
	writeElem(enc, "ClientName", doc.Client.Name)
	writeElem(enc, "IssueDate", issueDate(inv).Format("2006-01-02"))
	writeElem(enc, "Currency", inv.Currency)
	// Subtotal y Total son los importes guardados en la prefactura; RecordCount cuenta lo facturado
	writeElem(enc, "Subtotal", formatDecimal(inv.Subtotal))
	writeElem(enc, "TaxAmount", formatDecimal(inv.Tax))
	writeElem(enc, "SurchargeTotal", formatDecimal(doc.SurchargeTotal))
	writeElem(enc, "Total", formatDecimal(inv.Total))
	writeElem(enc, "RecordCount", strconv.Itoa(recordCount(doc.Lines)))
	writeElem(enc, "GeneratedAt", doc.GeneratedAt.UTC().Format(time.RFC3339))
	_ = enc.EncodeToken(header.End())

	// ---- LineItems
	items := xml.StartElement{Name: xml.Name{Local: "LineItems"}}
	_ = enc.EncodeToken(items)
	for _, l := range doc.Lines {
		item := xml.StartElement{
			Name: xml.Name{Local: "LineItem"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "lineNumber"}, Value: strconv.Itoa(l.LineNumber)},
				{Name: xml.Name{Local: "kind"}, Value: l.Kind},
			},
		}
		_ = enc.EncodeToken(item)
		writeElem(enc, "ServiceCode", l.ServiceCode)
		writeElem(enc, "Description", l.Description)
		writeElem(enc, "Quantity", strconv.FormatInt(l.Quantity, 10))
		writeElem(enc, "UnitPrice", formatDecimal(l.UnitPrice))
		writeElem(enc, "TotalPrice", formatDecimal(l.TotalPrice))
		if l.ReferenceDocument != "" {
			writeElem(enc, "ReferenceDocument", l.ReferenceDocument)
		}
		if l.FullEmpty != "" {
			writeElem(enc, "FullEmpty", l.FullEmpty)
		}
		_ = enc.EncodeToken(item.End())
	}
	_ = enc.EncodeToken(items.End())

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func documentType(inv *entity.Invoice) string {
	if dt, ok := pkgsap.DocumentTypes[inv.Module+"/"+inv.Type]; ok {
		return dt
	}
	return pkgsap.DocTypeTransport
}

func issueDate(inv *entity.Invoice) time.Time {
	if inv.IssueDate != nil {
		return *inv.IssueDate
	}
	return inv.CreatedAt
}

func writeElem(enc *xml.Encoder, local, value string) {
	_ = enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: local}})
	_ = enc.EncodeToken(xml.CharData(value))
	_ = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: local}})
}

func formatDecimal(d decimal.Decimal) string {
	return d.Round(2).StringFixed(2)
}

// recordCount registros distintos referenciados por las líneas.
func recordCount(lines []domsap.LineItem) int {
	seen := make(map[string]struct{})
	for _, l := range lines {
		for _, id := range l.RecordIDs {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
