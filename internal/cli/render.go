package cli

import (
	"fmt"
	"strings"

	"smartbudget/internal/core"
)

// FormatTransaction renders one transaction on a single line.
func FormatTransaction(t core.Transaction) string {
	return fmt.Sprintf("%s  %-7s  %-13s  %10s  %s", t.Date, t.Kind, t.Category, t.Amount, t.Description)
}

// RenderReport lays out the totals and the per-budget status in a box.
func RenderReport(r core.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total income:   %12s\n", r.TotalIncome)
	fmt.Fprintf(&b, "Total expenses: %12s\n", r.TotalExpenses)
	fmt.Fprintf(&b, "Savings:        %s", money(r.Savings, 12))

	if len(r.Budgets) == 0 {
		b.WriteString("\n\n" + SubtleStyle.Render("No budgets set."))
	} else {
		b.WriteString("\n\n" + BoldStyle.Render("Budgets"))
		for _, s := range r.Budgets {
			fmt.Fprintf(&b, "\n%-13s  limit %10s  spent %10s  remaining %s",
				s.Category, s.Limit, s.Spent, money(s.Remaining, 10))
		}
	}
	return RenderBox("Financial report", b.String())
}

// money right-aligns m in width columns and highlights negative values.
func money(m core.Money, width int) string {
	s := fmt.Sprintf("%*s", width, m)
	if m.IsNegative() {
		return NegativeStyle.Render(s)
	}
	return s
}
