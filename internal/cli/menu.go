package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"smartbudget/internal/core"
	"smartbudget/internal/log"
	"smartbudget/internal/services"
)

const mainMenu = `1. Set budget
2. View/Edit transactions
3. Generate report
4. Exit`

const transactionsMenu = `1. Add transaction
2. Update transaction
3. Delete transaction
4. View transactions
5. Back`

// App is the interactive numbered menu over the three managers.
type App struct {
	p       *Prompter
	budgets *services.BudgetService
	txs     *services.TransactionService
	reports *services.ReportService
	logger  *log.Logger
}

func NewApp(p *Prompter, budgets *services.BudgetService, txs *services.TransactionService, reports *services.ReportService, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &App{
		p:       p,
		budgets: budgets,
		txs:     txs,
		reports: reports,
		logger:  logger.WithComponent(log.ComponentCLI),
	}
}

// Run shows the main menu until the user exits or input ends. Store errors
// end the session and are returned.
func (a *App) Run(ctx context.Context) error {
	a.p.Println(FormatTitle("Welcome to Smart Budget!"))
	for {
		a.p.Println()
		a.p.Println(mainMenu)
		choice, err := a.p.Line(ctx, "Enter your choice:")
		if err != nil {
			return a.finish(err)
		}

		switch choice {
		case "1":
			err = a.setBudget(ctx)
		case "2":
			err = a.transactionsMenu(ctx)
		case "3":
			err = a.showReport(ctx)
		case "4":
			a.p.Println(FormatInfo("Goodbye!"))
			return nil
		default:
			a.p.Println(FormatWarning("Invalid choice. Please try again."))
		}
		if err != nil {
			return a.finish(err)
		}
	}
}

// finish turns end of input and interrupts into a clean exit.
func (a *App) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, ErrInputCancelled) {
		a.p.Println()
		a.p.Println(FormatInfo("Goodbye!"))
		return nil
	}
	a.logger.Error("Session ended with an error",
		log.FieldErrorType, errorType(err),
		log.FieldError, err)
	return err
}

// errorType classifies an error for the log.
func errorType(err error) string {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		return log.ErrorTypeValidation
	case errors.Is(err, core.ErrNotFound):
		return log.ErrorTypeNotFound
	default:
		return log.ErrorTypeStorage
	}
}

func (a *App) transactionsMenu(ctx context.Context) error {
	for {
		a.p.Println()
		a.p.Println(transactionsMenu)
		choice, err := a.p.Line(ctx, "Enter your choice:")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = a.addTransaction(ctx)
		case "2":
			err = a.updateTransaction(ctx)
		case "3":
			err = a.deleteTransaction(ctx)
		case "4":
			err = a.viewTransactions(ctx)
		case "5":
			return nil
		default:
			a.p.Println(FormatWarning("Invalid choice. Please try again."))
		}
		if err != nil {
			return err
		}
	}
}

func (a *App) setBudget(ctx context.Context) error {
	category, err := Ask(ctx, a.p, categoryPrompt(core.BudgetCategories), func(s string) (core.Category, error) {
		return core.ParseCategory(s, core.BudgetCategories)
	})
	if err != nil {
		return err
	}

	current, found, err := a.budgets.Find(ctx, category)
	if err != nil {
		return err
	}
	if found {
		ok, err := a.p.Confirm(ctx, fmt.Sprintf("A budget of %s is already set for %s. Overwrite? (y/n):", current.Limit, category))
		if err != nil {
			return err
		}
		if !ok {
			a.p.Println(FormatInfo(fmt.Sprintf("Budget for %s not changed.", category)))
			return nil
		}
	}

	limit, err := Ask(ctx, a.p, fmt.Sprintf("Enter the budget limit for %s:", category), core.ParsePositiveAmount)
	if err != nil {
		return err
	}
	entry, _, err := a.budgets.Set(ctx, category, limit)
	if err != nil {
		return err
	}
	a.p.Println(FormatSuccess(fmt.Sprintf("Budget limit for %s set to %s", entry.Category, entry.Limit)))
	return nil
}

func (a *App) addTransaction(ctx context.Context) error {
	date, err := Ask(ctx, a.p, "Enter the date (YYYY-MM-DD, empty for today):", func(s string) (core.Date, error) {
		return core.ParseDateOrToday(s, a.txs.Today().Time)
	})
	if err != nil {
		return err
	}
	fields, err := a.askFields(ctx)
	if err != nil {
		return err
	}
	if _, err := a.txs.Add(ctx, services.NewTransaction{
		Date:        date,
		Kind:        fields.Kind,
		Category:    fields.Category,
		Amount:      fields.Amount,
		Description: fields.Description,
	}); err != nil {
		return err
	}
	a.p.Println(FormatSuccess("Transaction added successfully!"))
	return nil
}

func (a *App) updateTransaction(ctx context.Context) error {
	date, err := Ask(ctx, a.p, "Enter the date of the transaction to update (YYYY-MM-DD):", core.ParseDate)
	if err != nil {
		return err
	}
	target, err := a.txs.FirstByDate(ctx, date)
	if errors.Is(err, core.ErrNotFound) {
		a.p.Println(FormatWarning(fmt.Sprintf("No transaction found for %s.", date)))
		return nil
	}
	if err != nil {
		return err
	}
	a.p.Println("Updating: " + FormatTransaction(target))

	changes, err := a.askFields(ctx)
	if err != nil {
		return err
	}
	_, err = a.txs.Update(ctx, target, changes)
	if errors.Is(err, core.ErrNotFound) {
		a.p.Println(FormatWarning("The transaction no longer exists."))
		return nil
	}
	if err != nil {
		return err
	}
	a.p.Println(FormatSuccess("Transaction updated successfully!"))
	return nil
}

func (a *App) deleteTransaction(ctx context.Context) error {
	date, err := Ask(ctx, a.p, "Enter the date of the transaction to delete (YYYY-MM-DD):", core.ParseDate)
	if err != nil {
		return err
	}
	matches, err := a.txs.FindByDate(ctx, date)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		a.p.Println(FormatWarning(fmt.Sprintf("No transaction found for %s.", date)))
		return nil
	}

	for i, t := range matches {
		a.p.Printf("%d. %s\n", i+1, FormatTransaction(t))
	}
	n, err := Ask(ctx, a.p, "Select the transaction to delete:", func(s string) (int, error) {
		return core.ParseIndex(s, len(matches))
	})
	if err != nil {
		return err
	}
	target := matches[n-1]

	ok, err := a.p.Confirm(ctx, fmt.Sprintf("Delete %s? (y/n):", FormatTransaction(target)))
	if err != nil {
		return err
	}
	if !ok {
		a.p.Println(FormatInfo("Deletion cancelled."))
		return nil
	}

	err = a.txs.Delete(ctx, target)
	if errors.Is(err, core.ErrNotFound) {
		a.p.Println(FormatWarning("The transaction no longer exists."))
		return nil
	}
	if err != nil {
		return err
	}
	a.p.Println(FormatSuccess("Transaction deleted successfully!"))
	return nil
}

func (a *App) viewTransactions(ctx context.Context) error {
	period, err := a.askPeriod(ctx)
	if err != nil {
		return err
	}

	n := 0
	for t, err := range a.txs.View(ctx, period) {
		if err != nil {
			return err
		}
		n++
		a.p.Printf("%d. %s\n", n, FormatTransaction(t))
	}
	if n == 0 {
		a.p.Println(FormatInfo("No transactions found."))
	}
	return nil
}

func (a *App) showReport(ctx context.Context) error {
	r, err := a.reports.Generate(ctx)
	if err != nil {
		return err
	}
	a.p.Println(RenderReport(r))
	return nil
}

// askFields prompts for every editable field. The category choices follow
// the type entered first.
func (a *App) askFields(ctx context.Context) (services.Changes, error) {
	var c services.Changes
	var err error

	if c.Kind, err = Ask(ctx, a.p, "Enter the type (I=Income, E=Expense):", core.ParseKind); err != nil {
		return c, err
	}
	allowed := c.Kind.Categories()
	if c.Category, err = Ask(ctx, a.p, categoryPrompt(allowed), func(s string) (core.Category, error) {
		return core.ParseCategory(s, allowed)
	}); err != nil {
		return c, err
	}
	if c.Amount, err = Ask(ctx, a.p, "Enter the amount:", core.ParsePositiveAmount); err != nil {
		return c, err
	}
	if c.Description, err = Ask(ctx, a.p, "Enter a description:", core.ParseNonEmptyText); err != nil {
		return c, err
	}
	return c, nil
}

func (a *App) askPeriod(ctx context.Context) (core.Period, error) {
	kind, err := Ask(ctx, a.p, "Show (A)ll, a (M)onth or a (Y)ear:", parsePeriodKind)
	if err != nil {
		return core.Period{}, err
	}
	switch kind {
	case core.MonthPeriod:
		return Ask(ctx, a.p, "Enter the month (YYYY-MM):", func(s string) (core.Period, error) {
			return core.ParsePeriod(core.MonthPeriod, s)
		})
	case core.YearPeriod:
		return Ask(ctx, a.p, "Enter the year (YYYY):", func(s string) (core.Period, error) {
			return core.ParsePeriod(core.YearPeriod, s)
		})
	default:
		return core.Period{Kind: core.AllTime}, nil
	}
}

func parsePeriodKind(s string) (core.PeriodKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "all", "":
		return core.AllTime, nil
	case "m", "month":
		return core.MonthPeriod, nil
	case "y", "year":
		return core.YearPeriod, nil
	default:
		return core.AllTime, &core.ValidationError{Field: "filter", Input: s, Err: core.ErrInvalidPeriod}
	}
}

func categoryPrompt(set core.CategorySet) string {
	return "Enter the category (" + set.Codes() + "):"
}
