package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "Income"
	Expense Kind = "Expense"
)

const (
	Housing       Category = "Housing"
	Transport     Category = "Transport"
	Food          Category = "Food"
	Entertainment Category = "Entertainment"
	Wage          Category = "Wage"
	Savings       Category = "Savings"
	Other         Category = "Other"
)

// DateLayout is the ISO form used for input and for persisted dates.
const DateLayout = "2006-01-02"

// MaxDescriptionLen caps a transaction description, in bytes.
const MaxDescriptionLen = 200

type (
	Kind     string
	Category string

	// CategorySet is an ordered, closed set of categories.
	CategorySet []Category

	Date struct {
		time.Time
	}

	BudgetEntry struct {
		Category Category
		Limit    Money
	}

	Transaction struct {
		ID          string // Opaque identifier assigned at creation; empty for legacy rows
		Date        Date
		Kind        Kind
		Category    Category
		Amount      Money
		Description string
		Position    int // 1-based row position at read time, 0 if unknown
	}
)

var (
	// ExpenseCategories may be used with Expense transactions.
	ExpenseCategories = CategorySet{Housing, Transport, Food, Entertainment}
	// IncomeCategories may be used with Income transactions.
	IncomeCategories = CategorySet{Wage, Savings, Other}
	// BudgetCategories may carry a budget limit.
	BudgetCategories = CategorySet{Housing, Transport, Food, Entertainment, Savings}
	// AllCategories is every known category.
	AllCategories = CategorySet{Housing, Transport, Food, Entertainment, Wage, Savings, Other}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidKind       = errors.New("invalid transaction type")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrNotFound          = errors.New("not found")
	ErrCategoryMismatch  = errors.New("category not allowed for transaction type")
	ErrDescriptionTooBig = errors.New("description too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Equal reports whether both dates fall on the same calendar day.
func (d Date) Equal(o Date) bool {
	return d.Year() == o.Year() && d.Month() == o.Month() && d.Day() == o.Day()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Categories returns the categories allowed for the kind.
func (k Kind) Categories() CategorySet {
	switch k {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

// Contains reports whether c is a member of the set.
func (s CategorySet) Contains(c Category) bool {
	for _, v := range s {
		if v == c {
			return true
		}
	}
	return false
}

// Codes renders the set as "H=Housing, T=Transport" for prompts and errors.
func (s CategorySet) Codes() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.Code() + "=" + string(c)
	}
	return strings.Join(parts, ", ")
}

// Lookup finds a member by full name, ignoring case.
func (s CategorySet) Lookup(name string) (Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range s {
		if strings.EqualFold(name, string(c)) {
			return c, true
		}
	}
	return "", false
}

// CanonicalKind maps a stored type name to Income or Expense, ignoring case.
// Unknown names are returned unchanged.
func CanonicalKind(name string) Kind {
	name = strings.TrimSpace(name)
	for _, k := range []Kind{Income, Expense} {
		if strings.EqualFold(name, string(k)) {
			return k
		}
	}
	return Kind(name)
}

// CanonicalCategory maps a stored category name to its canonical spelling.
// Unknown names are returned unchanged.
func CanonicalCategory(name string) Category {
	if c, ok := AllCategories.Lookup(name); ok {
		return c
	}
	return Category(strings.TrimSpace(name))
}

// Code is the single-letter shortcut for the category.
func (c Category) Code() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c)[:1])
}

func (b BudgetEntry) Validate() error {
	if !BudgetCategories.Contains(b.Category) {
		return ErrInvalidCategory
	}
	return b.Limit.Validate()
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if !t.Kind.Categories().Contains(t.Category) {
		return ErrCategoryMismatch
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > MaxDescriptionLen {
		return ErrDescriptionTooBig
	}
	return nil
}

// SameFields reports whether two transactions hold identical values,
// ignoring ID and Position.
func (t Transaction) SameFields(o Transaction) bool {
	return t.Date.Equal(o.Date) &&
		t.Kind == o.Kind &&
		t.Category == o.Category &&
		t.Amount.Equal(o.Amount) &&
		t.Description == o.Description
}
