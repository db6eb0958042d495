package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, input string, err error) error {
	return &ValidationError{Field: field, Input: input, Err: err}
}

// ParseDate accepts YYYY-MM-DD for a real calendar date.
func ParseDate(text string) (Date, error) {
	s := strings.TrimSpace(text)
	if len(s) != len(DateLayout) || s[4] != '-' || s[7] != '-' {
		return Date{}, invalid("date", text, ErrInvalidDate)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, invalid("date", text, ErrInvalidDate)
	}
	return Date{Time: t}, nil
}

// ParseDateOrToday is ParseDate where empty input means the date of now.
func ParseDateOrToday(text string, now time.Time) (Date, error) {
	if strings.TrimSpace(text) == "" {
		return DateOf(now), nil
	}
	return ParseDate(text)
}

// ParseKind accepts I/E or Income/Expense, case-insensitive.
func ParseKind(text string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "i", "income":
		return Income, nil
	case "e", "expense":
		return Expense, nil
	default:
		return "", invalid("type", text, ErrInvalidKind)
	}
}

// ParseCategory maps a single-letter code or a full name, case-insensitive,
// through allowed.
func ParseCategory(code string, allowed CategorySet) (Category, error) {
	s := strings.TrimSpace(code)
	if s == "" {
		return "", invalid("category", code, fmt.Errorf("%w: choose one of %s", ErrInvalidCategory, allowed.Codes()))
	}
	for _, c := range allowed {
		if len(s) == 1 && strings.EqualFold(s, c.Code()) {
			return c, nil
		}
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", invalid("category", code, fmt.Errorf("%w: choose one of %s", ErrInvalidCategory, allowed.Codes()))
}

// ParsePositiveAmount requires a number that is still greater than zero
// once rounded to cents.
func ParsePositiveAmount(text string) (Money, error) {
	m, err := ParseMoney(text)
	if err != nil {
		return Money{}, invalid("amount", text, ErrInvalidAmount)
	}
	if err := m.Validate(); err != nil {
		return Money{}, invalid("amount", text, err)
	}
	return m, nil
}

// ParseNonEmptyText rejects empty or whitespace-only input and returns the
// trimmed text.
func ParseNonEmptyText(text string) (string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return "", invalid("description", text, ErrEmptyDescription)
	}
	if len(s) > MaxDescriptionLen {
		return "", invalid("description", text, ErrDescriptionTooBig)
	}
	return s, nil
}

// ParseYesNo is true only for y/yes; every other answer means no.
func ParseYesNo(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ParseIndex parses a 1-based choice within [1, n].
func ParseIndex(text string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || i < 1 || i > n {
		return 0, invalid("choice", text, fmt.Errorf("enter a number between 1 and %d", n))
	}
	return i, nil
}
