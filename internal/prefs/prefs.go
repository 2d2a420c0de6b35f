// Package prefs holds the persisted display settings: search text, filters,
// sort mode and theme.
package prefs

import (
	"errors"
	"fmt"
	"strings"
)

// AllCategories disables the category filter.
const AllCategories = "all"

type (
	Period   string
	SortMode string
	Theme    string
	// Field names a preference that ChangeFilter-style commands can set.
	Field string
)

const (
	PeriodAll       Period = "all"
	PeriodThisMonth Period = "this-month"
	PeriodLast30    Period = "last-30"
)

const (
	SortDateAsc    SortMode = "date-asc"
	SortDateDesc   SortMode = "date-desc"
	SortAmountAsc  SortMode = "amount-asc"
	SortAmountDesc SortMode = "amount-desc"
	SortNameAsc    SortMode = "name-asc"
	SortNameDesc   SortMode = "name-desc"
)

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

const (
	FieldSearch   Field = "search"
	FieldCategory Field = "category"
	FieldPeriod   Field = "period"
	FieldSort     Field = "sort"
)

var ErrUnknownField = errors.New("unknown preference field")

// Preferences is stored as JSON under kv.PrefsKey.
type Preferences struct {
	Search         string   `json:"search"`
	FilterCategory string   `json:"filterCategory"`
	FilterPeriod   Period   `json:"filterPeriod"`
	SortBy         SortMode `json:"sortBy"`
	Theme          Theme    `json:"theme"`
}

// Defaults returns the preferences of a fresh install.
func Defaults() Preferences {
	return Preferences{
		Search:         "",
		FilterCategory: AllCategories,
		FilterPeriod:   PeriodAll,
		SortBy:         SortDateDesc,
		Theme:          ThemeDark,
	}
}

func Periods() []Period { return []Period{PeriodAll, PeriodThisMonth, PeriodLast30} }

func SortModes() []SortMode {
	return []SortMode{SortDateAsc, SortDateDesc, SortAmountAsc, SortAmountDesc, SortNameAsc, SortNameDesc}
}

// ParsePeriod returns PeriodAll for unknown values.
func ParsePeriod(s string) Period {
	p := Period(strings.TrimSpace(s))
	switch p {
	case PeriodAll, PeriodThisMonth, PeriodLast30:
		return p
	}
	return PeriodAll
}

// ParseSortMode returns SortDateDesc for unknown values.
func ParseSortMode(s string) SortMode {
	m := SortMode(strings.TrimSpace(s))
	for _, known := range SortModes() {
		if m == known {
			return m
		}
	}
	return SortDateDesc
}

// ParseTheme returns ThemeDark for unknown values.
func ParseTheme(s string) Theme {
	switch t := Theme(strings.TrimSpace(s)); t {
	case ThemeDark, ThemeLight:
		return t
	}
	return ThemeDark
}

// ParseField accepts the short names and the stored JSON keys.
func ParseField(s string) (Field, error) {
	switch strings.TrimSpace(s) {
	case "search":
		return FieldSearch, nil
	case "category", "filterCategory":
		return FieldCategory, nil
	case "period", "filterPeriod":
		return FieldPeriod, nil
	case "sort", "sortBy":
		return FieldSort, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Normalize maps every field onto its valid domain.
func (p Preferences) Normalize() Preferences {
	p.Search = strings.TrimSpace(p.Search)
	if strings.TrimSpace(p.FilterCategory) == "" {
		p.FilterCategory = AllCategories
	}
	p.FilterPeriod = ParsePeriod(string(p.FilterPeriod))
	p.SortBy = ParseSortMode(string(p.SortBy))
	p.Theme = ParseTheme(string(p.Theme))
	return p
}

// With returns a copy of p with field set to value.
func (p Preferences) With(field Field, value string) (Preferences, error) {
	switch field {
	case FieldSearch:
		p.Search = strings.TrimSpace(value)
	case FieldCategory:
		p.FilterCategory = strings.TrimSpace(value)
		if p.FilterCategory == "" {
			p.FilterCategory = AllCategories
		}
	case FieldPeriod:
		p.FilterPeriod = ParsePeriod(value)
	case FieldSort:
		p.SortBy = ParseSortMode(value)
	default:
		return p, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return p, nil
}
