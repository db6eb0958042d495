package services

import (
	"context"
	"time"

	"smartbudget/internal/core"
	"smartbudget/internal/log"
)

// ReportService summarises the whole ledger against the budgets.
type ReportService struct {
	budgets      *BudgetService
	transactions *TransactionService
	opts         options
}

func NewReportService(budgets *BudgetService, transactions *TransactionService, opts ...Option) *ReportService {
	return &ReportService{
		budgets:      budgets,
		transactions: transactions,
		opts:         buildOptions(log.ComponentReport, opts),
	}
}

// Generate totals every transaction ever recorded and compares expenses with
// each budget, in budget store order.
func (s *ReportService) Generate(ctx context.Context) (core.Report, error) {
	start := time.Now()
	txs, err := s.transactions.All(ctx)
	if err != nil {
		return core.Report{}, err
	}
	budgets, err := s.budgets.List(ctx)
	if err != nil {
		return core.Report{}, err
	}

	r := Summarise(txs, budgets)
	s.opts.logger.DebugContext(ctx, "Report generated",
		log.FieldOperation, log.OpReport,
		log.FieldRecordCount, len(txs),
		log.FieldDuration, time.Since(start).Milliseconds(),
		"income", r.TotalIncome.String(),
		"expenses", r.TotalExpenses.String())
	return r, nil
}

// Summarise computes a report from already loaded records.
func Summarise(txs []core.Transaction, budgets []core.BudgetEntry) core.Report {
	r := core.Report{
		TotalIncome:   core.Zero,
		TotalExpenses: core.Zero,
	}
	spent := make(map[core.Category]core.Money)
	for _, t := range txs {
		switch t.Kind {
		case core.Income:
			r.TotalIncome = r.TotalIncome.Add(t.Amount)
		case core.Expense:
			r.TotalExpenses = r.TotalExpenses.Add(t.Amount)
			if cur, ok := spent[t.Category]; ok {
				spent[t.Category] = cur.Add(t.Amount)
			} else {
				spent[t.Category] = t.Amount
			}
		}
	}
	r.Savings = r.TotalIncome.Sub(r.TotalExpenses)

	// Older sheets may hold several rows for one category; the first is the
	// one Set maintains, so later copies are left out.
	seen := make(map[core.Category]bool, len(budgets))
	r.Budgets = make([]core.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		if seen[b.Category] {
			continue
		}
		seen[b.Category] = true
		s, ok := spent[b.Category]
		if !ok {
			s = core.Zero
		}
		r.Budgets = append(r.Budgets, core.BudgetStatus{
			Category:  b.Category,
			Limit:     b.Limit,
			Spent:     s,
			Remaining: b.Limit.Sub(s),
		})
	}
	return r
}
