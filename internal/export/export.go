// Package export renders every stored record as a tab separated text report.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"spesa/internal/core"
)

const (
	Title  = "Expense Tracker - Export"
	Header = "Date\tName\tCategory\tAmount\tNotes"

	dateLayout      = "1/2/2006"
	timestampLayout = "1/2/2006, 3:04:05 PM"
)

// ErrNothingToExport is returned for an empty record list; no file should be produced.
var ErrNothingToExport = errors.New("nothing to export")

var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " / ", "\n", " / ")

// FileName returns expenses_<YYYY-MM-DD>.txt for the UTC date of now.
func FileName(now time.Time) string {
	return fmt.Sprintf("expenses_%s.txt", now.UTC().Format(time.DateOnly))
}

// Build renders the report for all records, in the order given. Dates and the
// generation timestamp are shown in loc (time.Local when nil).
func Build(all []core.Expense, now time.Time, loc *time.Location) (string, error) {
	if len(all) == 0 {
		return "", ErrNothingToExport
	}
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	line := func(s string) {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}

	total := core.Zero
	line(Title)
	line("Generated: " + now.In(loc).Format(timestampLayout))
	line("")
	line(Header)
	for _, e := range all {
		total = total.Add(e.Amount)
		line(strings.Join([]string{
			formatDate(e.Date, loc),
			Cell(e.Name),
			Cell(e.Category),
			e.Amount.Fixed2(),
			Cell(e.Notes),
		}, "\t"))
	}
	line("")
	line("Total items: " + strconv.Itoa(len(all)))
	line("Total amount: " + total.Fixed2())

	return b.String(), nil
}

// Cell makes text safe for one cell: tabs become spaces and line breaks " / ".
func Cell(s string) string {
	return cellReplacer.Replace(s)
}

// formatDate falls back to the stored raw text for unparseable dates.
func formatDate(d core.Date, loc *time.Location) string {
	if !d.Valid() {
		return Cell(d.Raw)
	}
	return d.Time.In(loc).Format(dateLayout)
}
