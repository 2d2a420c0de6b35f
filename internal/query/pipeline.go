package query

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"spesa/internal/core"
	"spesa/internal/prefs"
)

// Options carries the inputs of a run that are not stored state.
type Options struct {
	// Now anchors the period filters. Zero means time.Now().
	Now time.Time
	// Language selects the collation used for name sorting. Und means English.
	Language language.Tag
}

// Run applies, in order, the search filter, the category filter, the period
// filter and the sort. It never modifies all and returns a fresh slice, so
// running it again on the same inputs yields the same list.
func Run(all []core.Expense, p prefs.Preferences, opts Options) []core.Expense {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	out := make([]core.Expense, 0, len(all))
	search := strings.ToLower(p.Search)
	period := PeriodFilterFor(p.FilterPeriod)
	for _, e := range all {
		if !MatchesSearch(e, search) || !MatchesCategory(e, p.FilterCategory) || !period.Keep(e, now) {
			continue
		}
		out = append(out, e)
	}

	if less := comparator(p.SortBy, opts.Language); less != nil {
		slices.SortStableFunc(out, less)
	}
	return out
}

// MatchesSearch reports whether the lower-cased query is a substring of the
// record's name or notes, ignoring case. An empty query matches everything.
func MatchesSearch(e core.Expense, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Name), query) ||
		strings.Contains(strings.ToLower(e.Notes), query)
}

// MatchesCategory compares exactly, treating a missing category as "Other".
// The "all" filter, or an empty one, matches everything.
func MatchesCategory(e core.Expense, category string) bool {
	if category == "" || category == prefs.AllCategories {
		return true
	}
	return e.CategoryOrDefault() == category
}

// comparator returns nil for unknown sort modes so the filtered order stays.
func comparator(mode prefs.SortMode, tag language.Tag) func(a, b core.Expense) int {
	switch mode {
	case prefs.SortDateAsc:
		return func(a, b core.Expense) int { return a.Date.Compare(b.Date) }
	case prefs.SortDateDesc:
		return func(a, b core.Expense) int { return b.Date.Compare(a.Date) }
	case prefs.SortAmountAsc:
		return func(a, b core.Expense) int { return a.Amount.Cmp(b.Amount) }
	case prefs.SortAmountDesc:
		return func(a, b core.Expense) int { return b.Amount.Cmp(a.Amount) }
	case prefs.SortNameAsc, prefs.SortNameDesc:
		if tag == language.Und {
			tag = language.English
		}
		// A Collator keeps scratch buffers; one per run.
		c := collate.New(tag)
		byName := func(a, b core.Expense) int {
			if r := c.CompareString(a.Name, b.Name); r != 0 {
				return r
			}
			return cmp.Compare(a.Name, b.Name)
		}
		if mode == prefs.SortNameDesc {
			return func(a, b core.Expense) int { return byName(b, a) }
		}
		return byName
	}
	return nil
}
