package query

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"spesa/internal/core"
	"spesa/internal/prefs"
)

var now = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func exp(id int64, name string, amount float64, category string, date core.Date, notes string) core.Expense {
	return core.Expense{ID: id, Name: name, Amount: core.NewMoney(amount), Category: category, Date: date, Notes: notes}
}

func scenario() []core.Expense {
	return []core.Expense{
		exp(1, "Coffee", 4.50, "Food", core.NewDate(2024, 1, 5), ""),
		exp(2, "Bus", 2.75, "Transport", core.NewDate(2024, 1, 6), ""),
	}
}

func names(list []core.Expense) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Name
	}
	return out
}

func withPrefs(mut func(*prefs.Preferences)) prefs.Preferences {
	p := prefs.Defaults()
	mut(&p)
	return p
}

func TestScenarioAmountDesc(t *testing.T) {
	p := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortAmountDesc })
	view := Run(scenario(), p, Options{Now: now})
	assert.Equal(t, []string{"Coffee", "Bus"}, names(view))
}

func TestScenarioSearchIsCaseInsensitive(t *testing.T) {
	p := withPrefs(func(p *prefs.Preferences) { p.Search = "bus" })
	view := Run(scenario(), p, Options{Now: now})
	assert.Equal(t, []string{"Bus"}, names(view))
}

func TestSearchMatchesNotes(t *testing.T) {
	all := append(scenario(), exp(3, "Lunch", 12, "Food", core.NewDate(2024, 1, 7), "with BUSiness team"))
	p := withPrefs(func(p *prefs.Preferences) { p.Search = "bus"; p.SortBy = prefs.SortDateAsc })
	assert.Equal(t, []string{"Bus", "Lunch"}, names(Run(all, p, Options{Now: now})))
}

func TestCategoryFilter(t *testing.T) {
	all := append(scenario(), exp(3, "Misc", 1, "", core.NewDate(2024, 1, 7), ""))

	p := withPrefs(func(p *prefs.Preferences) { p.FilterCategory = "Transport" })
	assert.Equal(t, []string{"Bus"}, names(Run(all, p, Options{Now: now})))

	p = withPrefs(func(p *prefs.Preferences) { p.FilterCategory = "Other" })
	assert.Equal(t, []string{"Misc"}, names(Run(all, p, Options{Now: now})), "missing category counts as Other")

	p = withPrefs(func(p *prefs.Preferences) { p.FilterCategory = "food" })
	assert.Empty(t, Run(all, p, Options{Now: now}), "category match is exact")
}

func TestPeriodFilters(t *testing.T) {
	all := []core.Expense{
		exp(1, "old", 1, "Food", core.NewDate(2023, 12, 25), ""),
		exp(2, "edge", 1, "Food", core.DateOf(now.AddDate(0, 0, -30)), ""),
		exp(3, "before-edge", 1, "Food", core.DateOf(now.AddDate(0, 0, -30).Add(-time.Second)), ""),
		exp(4, "this-month", 1, "Food", core.NewDate(2024, 1, 2), ""),
		exp(5, "future", 1, "Food", core.DateOf(now.Add(time.Hour)), ""),
		exp(6, "broken", 1, "Food", core.Date{Raw: "someday"}, ""),
		exp(7, "now", 1, "Food", core.DateOf(now), ""),
	}
	run := func(period prefs.Period) []string {
		p := withPrefs(func(p *prefs.Preferences) { p.FilterPeriod = period; p.SortBy = prefs.SortMode("none") })
		return names(Run(all, p, Options{Now: now}))
	}

	assert.Equal(t, names(all), run(prefs.PeriodAll))
	assert.Equal(t, []string{"this-month", "future", "now"}, run(prefs.PeriodThisMonth))
	assert.Equal(t, []string{"old", "edge", "this-month", "now"}, run(prefs.PeriodLast30))
}

func TestSortByDateOrdersUnparseableFirst(t *testing.T) {
	all := []core.Expense{
		exp(1, "b", 1, "Food", core.NewDate(2024, 1, 6), ""),
		exp(2, "x", 1, "Food", core.Date{Raw: "??"}, ""),
		exp(3, "a", 1, "Food", core.NewDate(2024, 1, 5), ""),
	}
	asc := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortDateAsc })
	assert.Equal(t, []string{"x", "a", "b"}, names(Run(all, asc, Options{Now: now})))

	desc := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortDateDesc })
	assert.Equal(t, []string{"b", "a", "x"}, names(Run(all, desc, Options{Now: now})))
}

func TestSortByNameIsLocaleAware(t *testing.T) {
	all := []core.Expense{
		exp(1, "zebra", 1, "", core.NewDate(2024, 1, 1), ""),
		exp(2, "Éclair", 1, "", core.NewDate(2024, 1, 1), ""),
		exp(3, "apple", 1, "", core.NewDate(2024, 1, 1), ""),
		exp(4, "Banana", 1, "", core.NewDate(2024, 1, 1), ""),
	}
	asc := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortNameAsc })
	assert.Equal(t, []string{"apple", "Banana", "Éclair", "zebra"}, names(Run(all, asc, Options{Now: now, Language: language.French})))

	desc := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortNameDesc })
	assert.Equal(t, []string{"zebra", "Éclair", "Banana", "apple"}, names(Run(all, desc, Options{Now: now})))
}

func TestUnknownSortKeepsInputOrder(t *testing.T) {
	all := []core.Expense{
		exp(1, "c", 3, "", core.NewDate(2024, 1, 3), ""),
		exp(2, "a", 1, "", core.NewDate(2024, 1, 1), ""),
		exp(3, "b", 2, "", core.NewDate(2024, 1, 2), ""),
	}
	p := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortMode("random") })
	assert.Equal(t, []string{"c", "a", "b"}, names(Run(all, p, Options{Now: now})))
}

func TestSortIsStable(t *testing.T) {
	all := []core.Expense{
		exp(1, "first", 5, "", core.NewDate(2024, 1, 1), ""),
		exp(2, "second", 5, "", core.NewDate(2024, 1, 1), ""),
		exp(3, "third", 1, "", core.NewDate(2024, 1, 1), ""),
	}
	p := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortAmountDesc })
	assert.Equal(t, []string{"first", "second", "third"}, names(Run(all, p, Options{Now: now})))
}

func TestAmountAscReversedEqualsDesc(t *testing.T) {
	all := []core.Expense{
		exp(1, "a", 3.1, "", core.NewDate(2024, 1, 1), ""),
		exp(2, "b", 0.5, "", core.NewDate(2024, 1, 1), ""),
		exp(3, "c", 12, "", core.NewDate(2024, 1, 1), ""),
		exp(4, "d", 7.25, "", core.NewDate(2024, 1, 1), ""),
	}
	asc := Run(all, withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortAmountAsc }), Options{Now: now})
	desc := Run(all, withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortAmountDesc }), Options{Now: now})
	slices.Reverse(asc)
	assert.Equal(t, names(desc), names(asc))
}

func TestRunIsIdempotentAndPure(t *testing.T) {
	all := append(scenario(), exp(3, "Taxi", 20, "Transport", core.NewDate(2024, 1, 19), "late"))
	snapshot := slices.Clone(all)
	p := withPrefs(func(p *prefs.Preferences) { p.SortBy = prefs.SortNameAsc; p.FilterPeriod = prefs.PeriodThisMonth })

	first := Run(all, p, Options{Now: now})
	second := Run(all, p, Options{Now: now})
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, all, "input must not be reordered")
}

func TestPeriodFilterForUnknown(t *testing.T) {
	assert.IsType(t, AnyTime{}, PeriodFilterFor(prefs.Period("decade")))
	assert.IsType(t, LastDays{}, PeriodFilterFor(prefs.PeriodLast30))
}
