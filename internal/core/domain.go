package core

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultCategory is used whenever a record carries no category.
const DefaultCategory = "Other"

// Categories lists the categories offered by the entry form. Records may carry
// any category text; this list is not enforced.
var Categories = []string{"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", DefaultCategory}

type (
	// Expense is a single stored expense record.
	Expense struct {
		ID       int64
		Name     string
		Amount   Money
		Category string
		Date     Date
		Notes    string
	}

	// CategoryAmount represents an amount aggregated by category name.
	CategoryAmount struct {
		Name   string
		Amount Money
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidExpense wraps every validation failure of a submitted expense.
	ErrInvalidExpense = errors.New("invalid expense")
)

// CategoryOrDefault returns the category, treating an empty one as DefaultCategory.
func (e Expense) CategoryOrDefault() string {
	if e.Category == "" {
		return DefaultCategory
	}
	return e.Category
}

// Validate checks the rules a record must satisfy when created or edited.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, ErrEmptyName)
	}
	if err := e.Amount.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpense, err)
	}
	return nil
}
