// Package query turns the stored records and the current preferences into
// the ordered view that is displayed.
//
// This file implements the period filters as strategies, one per
// prefs.Period value.
package query

import (
	"time"

	"spesa/internal/core"
	"spesa/internal/prefs"
)

// PeriodFilter decides whether a record falls inside a time period.
type PeriodFilter interface {
	Keep(e core.Expense, now time.Time) bool
}

// AnyTime keeps every record.
type AnyTime struct{}

func (AnyTime) Keep(core.Expense, time.Time) bool { return true }

// ThisMonth keeps records dated in the same calendar year and month as now,
// in now's location. Records with an unparseable date are dropped.
type ThisMonth struct{}

func (ThisMonth) Keep(e core.Expense, now time.Time) bool {
	if !e.Date.Valid() {
		return false
	}
	d := e.Date.Time.In(now.Location())
	return d.Year() == now.Year() && d.Month() == now.Month()
}

// LastDays keeps records dated within [now - Days days, now], both ends
// inclusive. Records with an unparseable date are dropped.
type LastDays struct {
	Days int
}

func (l LastDays) Keep(e core.Expense, now time.Time) bool {
	if !e.Date.Valid() {
		return false
	}
	since := now.AddDate(0, 0, -l.Days)
	return !e.Date.Time.Before(since) && !e.Date.Time.After(now)
}

var periodFilters = map[prefs.Period]PeriodFilter{
	prefs.PeriodAll:       AnyTime{},
	prefs.PeriodThisMonth: ThisMonth{},
	prefs.PeriodLast30:    LastDays{Days: 30},
}

// PeriodFilterFor returns the filter for p; unknown periods keep everything.
func PeriodFilterFor(p prefs.Period) PeriodFilter {
	if f, ok := periodFilters[p]; ok {
		return f
	}
	return AnyTime{}
}
