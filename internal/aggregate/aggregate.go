// Package aggregate computes the totals shown alongside a view.
package aggregate

import (
	"slices"

	"spesa/internal/core"
)

// Totals summarises a view.
type Totals struct {
	Total core.Money
	Count int
	// ByCategory is ordered by descending amount; ties keep the order in
	// which categories first appear in the view.
	ByCategory []core.CategoryAmount
}

// Compute sums the amounts of view overall and per category. Records without
// a category are counted under core.DefaultCategory.
func Compute(view []core.Expense) Totals {
	t := Totals{Count: len(view)}
	index := map[string]int{}
	for _, e := range view {
		t.Total = t.Total.Add(e.Amount)

		name := e.CategoryOrDefault()
		i, ok := index[name]
		if !ok {
			i = len(t.ByCategory)
			index[name] = i
			t.ByCategory = append(t.ByCategory, core.CategoryAmount{Name: name})
		}
		t.ByCategory[i].Amount = t.ByCategory[i].Amount.Add(e.Amount)
	}

	slices.SortStableFunc(t.ByCategory, func(a, b core.CategoryAmount) int {
		return b.Amount.Cmp(a.Amount)
	})
	return t
}
