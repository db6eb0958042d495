package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BudgetStatus compares one budget limit with what was spent in its category.
type BudgetStatus struct {
	Category  Category
	Limit     Money
	Spent     Money
	Remaining Money // negative when overspent
}

// Report is a whole-history summary of income, expenses and budgets.
type Report struct {
	TotalIncome   Money
	TotalExpenses Money
	Savings       Money // may be negative
	Budgets       []BudgetStatus
}

type PeriodKind int

const (
	AllTime PeriodKind = iota
	MonthPeriod
	YearPeriod
)

// Period selects which transactions View yields.
type Period struct {
	Kind  PeriodKind
	Year  int
	Month int // 1-12, only for MonthPeriod
}

// Matches reports whether d falls inside the period.
func (p Period) Matches(d Date) bool {
	switch p.Kind {
	case MonthPeriod:
		return d.Year() == p.Year && int(d.Month()) == p.Month
	case YearPeriod:
		return d.Year() == p.Year
	default:
		return true
	}
}

// String renders the period the way ParsePeriod reads it, or "all".
func (p Period) String() string {
	switch p.Kind {
	case MonthPeriod:
		return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
	case YearPeriod:
		return fmt.Sprintf("%04d", p.Year)
	default:
		return "all"
	}
}

// ParsePeriod parses YYYY-MM for a month filter and YYYY for a year filter.
func ParsePeriod(kind PeriodKind, value string) (Period, error) {
	s := strings.TrimSpace(value)
	switch kind {
	case AllTime:
		return Period{Kind: AllTime}, nil
	case MonthPeriod:
		t, err := time.Parse("2006-01", s)
		if err != nil || len(s) != 7 {
			return Period{}, invalid("month", value, ErrInvalidPeriod)
		}
		return Period{Kind: MonthPeriod, Year: t.Year(), Month: int(t.Month())}, nil
	case YearPeriod:
		y, err := strconv.Atoi(s)
		if err != nil || len(s) != 4 || y < 1 {
			return Period{}, invalid("year", value, ErrInvalidPeriod)
		}
		return Period{Kind: YearPeriod, Year: y}, nil
	default:
		return Period{}, invalid("period", value, ErrInvalidPeriod)
	}
}
