// Package memory implementa los repositorios en memoria de proceso (STORE_DRIVER=memory y tests).
// Cada operación es atómica sobre un documento; no hay transacciones multi-documento.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/logistica-api/internal/domain/entity"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
)

// Store agrupa las colecciones y el mutex que las protege.
type Store struct {
	mu       sync.RWMutex
	txMu     sync.Mutex
	records  map[string]*entity.Record
	dedup    map[string]string // dedup_key -> record_id
	invoices map[string]*entity.Invoice
	clients  map[string]*entity.Client
	jobs     map[string]*entity.IngestionJob
	catalog  map[string]*entity.ServiceCatalogEntry
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		records:  make(map[string]*entity.Record),
		dedup:    make(map[string]string),
		invoices: make(map[string]*entity.Invoice),
		clients:  make(map[string]*entity.Client),
		jobs:     make(map[string]*entity.IngestionJob),
		catalog:  make(map[string]*entity.ServiceCatalogEntry),
	}
}

// Records devuelve el repositorio de registros.
func (s *Store) Records() *RecordRepository { return &RecordRepository{s: s} }

// Invoices devuelve el repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepository { return &InvoiceRepository{s: s} }

// Clients devuelve el repositorio de clientes.
func (s *Store) Clients() *ClientRepository { return &ClientRepository{s: s} }

// Jobs devuelve el repositorio de jobs de ingesta.
func (s *Store) Jobs() *IngestionJobRepository { return &IngestionJobRepository{s: s} }

// Catalog devuelve el repositorio del catálogo de servicios.
func (s *Store) Catalog() *ServiceCatalogRepository { return &ServiceCatalogRepository{s: s} }

// RunBilling serializa la unidad de trabajo. No hay rollback: el caso de uso compensa.
func (s *Store) RunBilling(ctx context.Context, fn func(
	records repository.RecordRepository,
	invoices repository.InvoiceRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.Records(), s.Invoices())
}

// SeedCatalog carga entradas del catálogo de servicios.
func (s *Store) SeedCatalog(entries ...*entity.ServiceCatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		c := *e
		s.catalog[e.ID] = &c
	}
}

func cloneRecord(r *entity.Record) *entity.Record {
	c := *r
	return &c
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.RecordIDs = append([]string(nil), inv.RecordIDs...)
	c.AdditionalLines = append([]entity.AdditionalLine(nil), inv.AdditionalLines...)
	if inv.IssueDate != nil {
		t := *inv.IssueDate
		c.IssueDate = &t
	}
	if inv.FinalizedAt != nil {
		t := *inv.FinalizedAt
		c.FinalizedAt = &t
	}
	return &c
}

func cloneJob(j *entity.IngestionJob) *entity.IngestionJob {
	c := *j
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
