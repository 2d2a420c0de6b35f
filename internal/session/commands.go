package session

import (
	"fmt"
	"strings"
	"time"

	"spesa/internal/core"
	"spesa/internal/prefs"
)

// Command is one user intent. The set is closed: SubmitAdd, SubmitEdit,
// Delete, ClearAll, ChangeFilter, ToggleTheme and Export.
type Command interface {
	Name() string
	command()
}

type (
	SubmitAdd struct {
		Form Form
	}

	SubmitEdit struct {
		ID   int64
		Form Form
	}

	Delete struct {
		ID int64
	}

	ClearAll struct{}

	ChangeFilter struct {
		Field prefs.Field
		Value string
	}

	ToggleTheme struct{}

	Export struct{}
)

func (SubmitAdd) Name() string { return "submit-add" }
func (SubmitEdit) Name() string { return "submit-edit" }
func (Delete) Name() string { return "delete" }
func (ClearAll) Name() string { return "clear-all" }
func (ChangeFilter) Name() string { return "change-filter" }
func (ToggleTheme) Name() string { return "toggle-theme" }
func (Export) Name() string { return "export" }

func (SubmitAdd) command() {}
func (SubmitEdit) command() {}
func (Delete) command() {}
func (ClearAll) command() {}
func (ChangeFilter) command() {}
func (ToggleTheme) command() {}
func (Export) command() {}

// Form is the raw text of the entry form.
type Form struct {
	Name     string
	Amount   string
	Category string
	Date     string
	Notes    string
}

// ParseForm turns form text into an expense ready to be stored. The category
// defaults to "Other" and an empty or unparseable date to now. Failures wrap
// core.ErrInvalidExpense.
func ParseForm(f Form, now time.Time) (core.Expense, error) {
	e := core.Expense{
		Name:     strings.TrimSpace(f.Name),
		Category: strings.TrimSpace(f.Category),
		Notes:    strings.TrimSpace(f.Notes),
	}
	if e.Category == "" {
		e.Category = core.DefaultCategory
	}
	if e.Name == "" {
		return core.Expense{}, fmt.Errorf("%w: %w", core.ErrInvalidExpense, core.ErrEmptyName)
	}

	amount, err := core.ParseAmount(f.Amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: %w", core.ErrInvalidExpense, err)
	}
	e.Amount = amount

	e.Date = core.ParseDate(f.Date)
	if !e.Date.Valid() {
		e.Date = core.DateOf(now)
	}
	return e, e.Validate()
}

// FormOf pre-fills a form from a stored record.
func FormOf(e core.Expense) Form {
	date := ""
	if e.Date.Valid() {
		date = e.Date.Time.UTC().Format(time.DateOnly)
	}
	return Form{
		Name:     e.Name,
		Amount:   e.Amount.String(),
		Category: e.Category,
		Date:     date,
		Notes:    e.Notes,
	}
}
