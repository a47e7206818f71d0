package sap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DeliveryResult respuesta del endpoint de recepción del ERP.
type DeliveryResult struct {
	Accepted bool
	DocID    string // número de documento asignado por SAP
	Message  string
}

// HTTPSender entrega el XML al endpoint de recepción de SAP (PI/CPI) por HTTP POST.
type HTTPSender struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSender construye el sender. timeout <= 0 usa 30 s.
func NewHTTPSender(endpoint string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSender{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ackEnvelope acuse que devuelve el middleware de integración.
type ackEnvelope struct {
	XMLName xml.Name `xml:"Acknowledgement"`
	Status  string   `xml:"Status"`
	DocID   string   `xml:"DocumentID"`
	Message string   `xml:"Message"`
}

// Send envía el documento. Un error significa que no hubo acuse positivo.
func (s *HTTPSender) Send(ctx context.Context, invoiceNumber string, payload []byte) (*DeliveryResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("sap: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml; charset=utf-8")
	req.Header.Set("X-Invoice-Number", invoiceNumber)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("sap: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("sap: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("sap: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sap: HTTP %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}
	return parseAck(raw)
}

// parseAck interpreta el acuse. Un 2xx sin cuerpo se considera aceptado.
func parseAck(raw []byte) (*DeliveryResult, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &DeliveryResult{Accepted: true}, nil
	}
	var ack ackEnvelope
	if err := xml.Unmarshal(raw, &ack); err != nil {
		return nil, fmt.Errorf("sap: respuesta no interpretable: %s", truncate(string(raw), 300))
	}
	res := &DeliveryResult{DocID: ack.DocID, Message: ack.Message}
	switch strings.ToUpper(strings.TrimSpace(ack.Status)) {
	case "OK", "ACCEPTED", "SUCCESS":
		res.Accepted = true
		return res, nil
	}
	return res, fmt.Errorf("sap: documento rechazado: %s", ack.Message)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
