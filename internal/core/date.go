package core

import (
	"encoding/json"
	"strings"
	"time"
)

// isoLayout matches the ISO-8601 form records have always been stored in.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Date is a calendar timestamp that remembers its stored text when the text
// could not be parsed.
type Date struct {
	time.Time
	Raw string
}

// DateOf wraps a valid instant.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

// NewDate creates a Date at UTC midnight of the given day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses stored or user supplied date text. Date-only values are
// UTC midnight; date-times without a zone are read in local time. Text that
// matches no layout yields an invalid Date carrying the raw text.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return Date{Time: t}
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.DateTime} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Date{Time: t}
		}
	}
	return Date{Raw: s}
}

// Valid reports whether the date holds a parsed instant.
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

// String returns the ISO form of a valid date and the raw text otherwise.
func (d Date) String() string {
	if d.Valid() {
		return d.Time.UTC().Format(isoLayout)
	}
	return d.Raw
}

// Compare orders invalid dates before valid ones; two invalid dates are equal.
func (d Date) Compare(o Date) int {
	switch {
	case !d.Valid() && !o.Valid():
		return 0
	case !d.Valid():
		return -1
	case !o.Valid():
		return 1
	}
	return d.Time.Compare(o.Time)
}

// MarshalJSON stores the date as a string, preserving unparseable raw text.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON never fails; see CoerceDate.
func (d *Date) UnmarshalJSON(data []byte) error {
	*d = CoerceDate(data, time.Now())
	return nil
}
