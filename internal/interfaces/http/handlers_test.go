package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/application/dto"
	"github.com/jhoicas/logistica-api/internal/application/ingestion"
	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/infrastructure/memory"
	infrasap "github.com/jhoicas/logistica-api/internal/infrastructure/sap"
	apphttp "github.com/jhoicas/logistica-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/logistica-api/pkg/jwt"
)

type apiFixture struct {
	app        *fiber.App
	store      *memory.Store
	dispatcher *ingestion.GoroutineDispatcher
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c1", Name: "Naviera Sur", TaxID: "155-1"}))
	require.NoError(t, store.Clients().Create(ctx, &entity.Client{ID: "c2", Name: "Armadora Norte", TaxID: "155-2"}))

	log := zerolog.Nop()
	settings := billing.Settings{TaxRate: decimal.RequireFromString("0.07"), Currency: "USD", AuthorityPrefix: "AUT-"}
	processor := ingestion.NewProcessor(store.Records(), store.Jobs(), nil, 2, log)
	dispatcher := ingestion.NewGoroutineDispatcher(processor, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		RecordUC:  billing.NewRecordUseCase(store.Records()),
		InvoiceUC: billing.NewInvoiceUseCase(store, store.Records(), store.Invoices(), store.Clients(), settings, log),
		FinalizeUC: billing.NewFinalizeInvoiceUseCase(store, store.Records(), store.Invoices(), store.Clients(), store.Catalog(),
			infrasap.NewXMLBuilder("1000", "LOGISTICA"), nil, nil, settings, log),
		ClientUC:  billing.NewClientUseCase(store.Clients(), store.Catalog()),
		IngestUC:  ingestion.NewUseCase(store.Clients(), store.Jobs(), dispatcher, log),
		JWTSecret: testJWTSecret,
	})
	return &apiFixture{app: app, store: store, dispatcher: dispatcher}
}

func (f *apiFixture) addRecord(t *testing.T, id, client, typ, amount string) {
	t.Helper()
	_, err := f.store.Records().CreateIfAbsent(context.Background(), &entity.Record{
		ID: id, Module: entity.ModuleTrucking, Type: typ, ClientID: client,
		Status: entity.RecordStatusCompletado, DedupKey: "k-" + id, CreatedAt: time.Now(),
		Payload: &entity.TruckingPayload{
			ContainerID: "MSCU" + id, BLNumber: "BL-1", FullEmpty: entity.ContainerFull,
			MoveDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString(amount),
		},
	})
	require.NoError(t, err)
}

func (f *apiFixture) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, role))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func errorCode(t *testing.T, body []byte) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e
}

func TestDraft_SeleccionMezcladaOVaciaResponde400(t *testing.T) {
	f := newAPI(t)
	f.addRecord(t, "r1", "c1", entity.TypeTransport, "100")
	f.addRecord(t, "r2", "c2", entity.TypeTransport, "50")

	resp, body := f.do(t, http.MethodPost, "/api/invoices/draft", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"r1", "r2"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MIXED_SELECTION", errorCode(t, body).Code)

	resp, _ = f.do(t, http.MethodPost, "/api/invoices/draft", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDraft_TotalesConImpuesto(t *testing.T) {
	f := newAPI(t)
	f.addRecord(t, "r1", "c1", entity.TypeTransport, "250")
	f.addRecord(t, "r2", "c1", entity.TypeTransport, "125")

	resp, body := f.do(t, http.MethodPost, "/api/invoices/draft", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"r1", "r2"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, "375", inv.Subtotal.String())
	assert.Equal(t, "26.25", inv.Tax.String())
	assert.Equal(t, "401.25", inv.Total.String())
}

func TestInvoiceFlow_GuardarFinalizarYDescargarXML(t *testing.T) {
	f := newAPI(t)
	f.addRecord(t, "r1", "c1", entity.TypeTransport, "100")

	resp, body := f.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"r1"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, entity.InvoiceStatusPrefactura, inv.Status)

	// El registro ya pertenece a la prefactura
	resp, _ = f.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"r1"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	finalize := dto.FinalizeInvoiceRequest{InvoiceNumber: "F-0001", IssueDate: "2024-03-05"}
	resp, _ = f.do(t, http.MethodPost, "/api/invoices/"+inv.ID+"/finalize", pkgjwt.RoleOperador, finalize)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "operador no puede finalizar")

	resp, body = f.do(t, http.MethodPost, "/api/invoices/"+inv.ID+"/finalize", pkgjwt.RoleFacturador, finalize)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var fin dto.FinalizeInvoiceResponse
	require.NoError(t, json.Unmarshal(body, &fin))
	assert.Equal(t, entity.InvoiceStatusFacturada, fin.Invoice.Status)
	assert.Equal(t, "F-0001", fin.Invoice.InvoiceNumber)

	resp, body = f.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/xml", pkgjwt.RoleOperador, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Contains(t, string(body), "<SAPInvoice")

	resp, body = f.do(t, http.MethodPost, "/api/invoices/"+inv.ID+"/finalize", pkgjwt.RoleAdmin, finalize)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVOICE_FINALIZED", errorCode(t, body).Code)

	resp, _ = f.do(t, http.MethodPatch, "/api/invoices/"+inv.ID+"/number", pkgjwt.RoleAdmin, dto.UpdateInvoiceNumberRequest{InvoiceNumber: "F-0002"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/invoices/"+inv.ID, pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/records/r1", pkgjwt.RoleAdmin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "un registro facturado no se elimina")
}

func TestFinalize_PrefijoDeAutoridadResponde422(t *testing.T) {
	f := newAPI(t)
	f.addRecord(t, "a1", "c1", entity.TypeAuthority, "40")

	resp, body := f.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"a1"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))

	resp, body = f.do(t, http.MethodPost, "/api/invoices/"+inv.ID+"/finalize", pkgjwt.RoleFacturador, dto.FinalizeInvoiceRequest{InvoiceNumber: "F-10"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_NUMBER_FORMAT", errorCode(t, body).Code)
}

func TestDeleteInvoice_LiberaRegistros(t *testing.T) {
	f := newAPI(t)
	f.addRecord(t, "r1", "c1", entity.TypeTransport, "100")

	resp, body := f.do(t, http.MethodPost, "/api/invoices", pkgjwt.RoleOperador, dto.DraftInvoiceRequest{RecordIDs: []string{"r1"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal(body, &inv))

	resp, _ = f.do(t, http.MethodDelete, "/api/invoices/"+inv.ID, pkgjwt.RoleFacturador, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/records/r1", pkgjwt.RoleOperador, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec dto.RecordResponse
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, entity.RecordStatusCompletado, rec.Status)
	assert.Empty(t, rec.InvoiceID)

	resp, _ = f.do(t, http.MethodGet, "/api/invoices/"+inv.ID, pkgjwt.RoleOperador, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIngestion_ClientesNoResueltosListaFilas(t *testing.T) {
	f := newAPI(t)
	in := dto.IngestionSubmitRequest{Module: entity.ModuleTrucking, Rows: []dto.IngestionRow{
		{Client: "Naviera Sur", Values: map[string]string{"container": "MSCU1"}},
		{Client: "Nadie", Values: map[string]string{"container": "MSCU2"}},
	}}
	resp, body := f.do(t, http.MethodPost, "/api/ingestion/jobs", pkgjwt.RoleOperador, in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := errorCode(t, body)
	assert.Equal(t, "UNRESOLVED_CLIENTS", e.Code)
	assert.Equal(t, []int{2}, e.Rows)
}

func TestIngestion_UploadCSVYPolling(t *testing.T) {
	f := newAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("module", entity.ModuleTrucking))
	fw, err := mw.CreateFormFile("file", "carga.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("cliente,container,bl,fecha,origin,destination,fe,amount\n" +
		"155-1,MSCU1,BL-1,2024-03-01,Balboa,Colon,F,100\n" +
		"155-1,MSCU1,BL-1,2024-03-01,Balboa,Colon,F,100\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ingestion/jobs/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperador))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(raw))

	var submitted dto.IngestionSubmitResponse
	require.NoError(t, json.Unmarshal(raw, &submitted))
	assert.Equal(t, 2, submitted.TotalRecords)

	f.dispatcher.Wait()
	resp, raw = f.do(t, http.MethodGet, "/api/ingestion/jobs/"+submitted.JobID, pkgjwt.RoleOperador, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job dto.IngestionJobResponse
	require.NoError(t, json.Unmarshal(raw, &job))
	assert.Equal(t, entity.JobStatusCompleted, job.Status)
	assert.Equal(t, 1, job.CreatedRecords)
	assert.Equal(t, 1, job.DuplicateRecords)
	assert.Equal(t, 100, job.Progress)

	resp, _ = f.do(t, http.MethodGet, "/api/ingestion/jobs/no-existe", pkgjwt.RoleOperador, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestClients_CrearYListar(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/clients", pkgjwt.RoleAdmin, dto.CreateClientRequest{Name: "Puerto Este", TaxID: "155-9"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = f.do(t, http.MethodPost, "/api/clients", pkgjwt.RoleAdmin, dto.CreateClientRequest{Name: "Otro", TaxID: "155-9"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/clients", pkgjwt.RoleAdmin, dto.CreateClientRequest{Name: "Sin RUC"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = f.do(t, http.MethodGet, "/api/clients?limit=10", pkgjwt.RoleOperador, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items []dto.ClientResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Len(t, page.Items, 3)
}
