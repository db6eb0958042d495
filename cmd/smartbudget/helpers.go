package main

import (
	"context"
	"fmt"

	"smartbudget/internal/backend"
	"smartbudget/internal/log"
	"smartbudget/internal/services"
)

type managers struct {
	budgets      *services.BudgetService
	transactions *services.TransactionService
	reports      *services.ReportService
	backend      *backend.BackendResult
	logger       *log.Logger
}

func (m *managers) Close() {
	if err := m.backend.Close(); err != nil {
		m.logger.Warn("Failed to close backend", log.FieldError, err)
	}
}

// openManagers builds the configured backend and the three managers over it,
// logging through the logger carried by ctx.
func openManagers(ctx context.Context) (*managers, error) {
	logger := log.FromContext(ctx)
	bcfg, err := backend.FromAppConfig(appConfig)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	logger.Info("Backend ready", log.FieldBackend, bcfg.Type.String())

	opts := []services.Option{services.WithLogger(logger)}
	if res.Publisher != nil {
		opts = append(opts, services.WithPublisher(res.Publisher))
	}
	m := &managers{
		budgets:      services.NewBudgetService(res.Store, opts...),
		transactions: services.NewTransactionService(res.Store, opts...),
		backend:      res,
		logger:       logger,
	}
	m.reports = services.NewReportService(m.budgets, m.transactions, opts...)
	return m, nil
}
