package main

import (
	"context"

	"github.com/jhoicas/logistica-api/internal/application/billing"
	"github.com/jhoicas/logistica-api/internal/domain/repository"
	"github.com/jhoicas/logistica-api/internal/infrastructure/memory"
	"github.com/jhoicas/logistica-api/internal/infrastructure/postgres"
	"github.com/jhoicas/logistica-api/pkg/config"
)

// storeSet repositorios del driver elegido por STORE_DRIVER.
type storeSet struct {
	records  repository.RecordRepository
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	jobs     repository.IngestionJobRepository
	catalog  repository.ServiceCatalogRepository
	tx       billing.TxRunner
	close    func()
}

func openStore(ctx context.Context, cfg *config.Config) (*storeSet, error) {
	if cfg.Store.Driver == "memory" {
		s := memory.NewStore()
		return &storeSet{
			records:  s.Records(),
			invoices: s.Invoices(),
			clients:  s.Clients(),
			jobs:     s.Jobs(),
			catalog:  s.Catalog(),
			tx:       s,
			close:    func() {},
		}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if _, err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &storeSet{
		records:  postgres.NewRecordRepository(pool),
		invoices: postgres.NewInvoiceRepository(pool),
		clients:  postgres.NewClientRepository(pool),
		jobs:     postgres.NewIngestionJobRepository(pool),
		catalog:  postgres.NewServiceCatalogRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}, nil
}
