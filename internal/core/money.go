// Package core provides money parsing and handling utilities.
//
// Amounts are kept as exact decimals; float64 only appears at the storage
// boundary where spreadsheet cells are numeric.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Amount decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{Amount: decimal.Zero}

// NewMoney builds Money from a float, rounding to cents.
func NewMoney(v float64) Money {
	return Money{Amount: decimal.NewFromFloat(v).Round(2)}
}

// MustMoney parses s and panics on error. Intended for tests and constants.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney converts a decimal string to Money without a sign check,
// rounding to cents so the value matches what a stored cell reads back as.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Amount: d.Round(2)}, nil
}

func (m Money) Validate() error {
	if !m.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount.Add(o.Amount)}
}

func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount.Sub(o.Amount)}
}

func (m Money) Equal(o Money) bool {
	return m.Amount.Equal(o.Amount)
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Float returns the value as a float64 for numeric spreadsheet cells.
// Use Add/Sub for arithmetic to avoid floating-point drift.
func (m Money) Float() float64 {
	return m.Amount.InexactFloat64()
}

// String renders the amount with two decimals.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}
