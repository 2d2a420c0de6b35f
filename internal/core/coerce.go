package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The Coerce functions turn one raw JSON field of a stored record into a
// usable value. They are total: absent (nil), null or malformed input yields
// the documented default and never an error.

type jsonKind int

const (
	kindAbsent jsonKind = iota
	kindNull
	kindBool
	kindNumber
	kindString
	kindComposite
)

func kindOf(raw json.RawMessage) jsonKind {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return kindAbsent
	}
	switch raw[0] {
	case 'n':
		return kindNull
	case 't', 'f':
		return kindBool
	case '"':
		return kindString
	case '{', '[':
		return kindComposite
	default:
		return kindNumber
	}
}

// numeric reads a JSON number or numeric string. Values outside float64
// range are malformed; underflow reads as zero.
func numeric(raw json.RawMessage) (decimal.Decimal, bool) {
	var text string
	switch kindOf(raw) {
	case kindNumber:
		text = string(bytes.TrimSpace(raw))
	case kindString:
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return decimal.Zero, true
		}
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return finite(d)
}

// CoerceID returns the integer part of a numeric id; anything else is 0.
func CoerceID(raw json.RawMessage) int64 {
	d, ok := numeric(raw)
	if !ok {
		return 0
	}
	return d.IntPart()
}

// CoerceAmount returns a numeric amount; anything else is zero.
func CoerceAmount(raw json.RawMessage) Money {
	d, ok := numeric(raw)
	if !ok {
		return Zero
	}
	return Money{Value: d}
}

// CoerceString returns text fields. Numbers keep their literal form, true
// becomes "true", and absent, null, false or composite values become "".
func CoerceString(raw json.RawMessage) string {
	switch kindOf(raw) {
	case kindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case kindNumber:
		return string(bytes.TrimSpace(raw))
	case kindBool:
		if string(bytes.TrimSpace(raw)) == "true" {
			return "true"
		}
	}
	return ""
}

// CoerceCategory is CoerceString with DefaultCategory for empty values.
func CoerceCategory(raw json.RawMessage) string {
	if s := CoerceString(raw); s != "" {
		return s
	}
	return DefaultCategory
}

// CoerceDate parses a stored date. Strings that do not parse are kept as raw
// text, numbers are Unix epoch milliseconds, and anything absent or empty
// becomes now.
func CoerceDate(raw json.RawMessage, now time.Time) Date {
	switch kindOf(raw) {
	case kindString:
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return ParseDate(s)
		}
	case kindNumber:
		if d, ok := numeric(raw); ok && !d.IsZero() {
			return DateOf(time.UnixMilli(d.IntPart()))
		}
	case kindBool:
		if string(bytes.TrimSpace(raw)) == "true" {
			return Date{Raw: "true"}
		}
	}
	return DateOf(now)
}

// record is the stored JSON shape of an Expense.
type record struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Amount   Money  `json:"amount"`
	Category string `json:"category"`
	Date     Date   `json:"date"`
	Notes    string `json:"notes"`
}

// MarshalJSON writes the stored record shape.
func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   e.Amount,
		Category: e.Category,
		Date:     e.Date,
		Notes:    e.Notes,
	})
}

// UnmarshalJSON never fails. Each field is coerced on its own, so one
// malformed field never costs the rest of the record.
func (e *Expense) UnmarshalJSON(data []byte) error {
	*e = DecodeExpense(data, time.Now())
	return nil
}

// DecodeExpense coerces one stored record. Input that is not a JSON object is
// treated as a record with every field absent.
func DecodeExpense(data []byte, now time.Time) Expense {
	var fields map[string]json.RawMessage
	if kindOf(data) != kindComposite || json.Unmarshal(data, &fields) != nil {
		fields = nil
	}
	return Expense{
		ID:       CoerceID(fields["id"]),
		Name:     CoerceString(fields["name"]),
		Amount:   CoerceAmount(fields["amount"]),
		Category: CoerceCategory(fields["category"]),
		Date:     CoerceDate(fields["date"], now),
		Notes:    CoerceString(fields["notes"]),
	}
}
