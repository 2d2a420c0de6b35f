package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCoerceID(t *testing.T) {
	cases := map[string]int64{
		``:                0,
		`null`:            0,
		`"abc"`:           0,
		`true`:            0,
		`{}`:              0,
		`1712345678901`:   1712345678901,
		`"42"`:            42,
		`1.712345678e+12`: 1712345678000,
	}
	for in, want := range cases {
		if got := CoerceID(json.RawMessage(in)); got != want {
			t.Fatalf("CoerceID(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestCoerceAmount(t *testing.T) {
	cases := map[string]string{
		``:       "0",
		`null`:   "0",
		`"x"`:    "0",
		`[1]`:    "0",
		`4.5`:    "4.5",
		`"2.75"`: "2.75",
		`""`:     "0",
	}
	for in, want := range cases {
		if got := CoerceAmount(json.RawMessage(in)).String(); got != want {
			t.Fatalf("CoerceAmount(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestCoerceAmountOutOfFloatRange(t *testing.T) {
	cases := []string{
		`1e400000000`,
		`-1e400000000`,
		`"1e400000000"`,
		`1e-400000000`,
		`12345678901234567890e300`,
	}
	for _, in := range cases {
		if got := CoerceAmount(json.RawMessage(in)); !got.Value.IsZero() {
			t.Fatalf("CoerceAmount(%s) = %s, want 0", in, got.Fixed2())
		}
	}

	big := CoerceAmount(json.RawMessage(`1e300`))
	if big.Value.IsZero() || big.Float64() != 1e300 {
		t.Fatalf("CoerceAmount(1e300) = %v, want 1e300 kept", big.Float64())
	}
}

func TestCoerceStringAndCategory(t *testing.T) {
	if got := CoerceString(json.RawMessage(`"Coffee"`)); got != "Coffee" {
		t.Fatalf("got %q", got)
	}
	if got := CoerceString(json.RawMessage(`12`)); got != "12" {
		t.Fatalf("got %q", got)
	}
	if got := CoerceString(nil); got != "" {
		t.Fatalf("got %q", got)
	}
	if got := CoerceCategory(json.RawMessage(`""`)); got != DefaultCategory {
		t.Fatalf("got %q", got)
	}
	if got := CoerceCategory(json.RawMessage(`"Food"`)); got != "Food" {
		t.Fatalf("got %q", got)
	}
}

func TestCoerceDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	d := CoerceDate(nil, now)
	if !d.Valid() || !d.Time.Equal(now) {
		t.Fatalf("missing date should become now, got %v", d)
	}

	d = CoerceDate(json.RawMessage(`"2024-01-05T00:00:00.000Z"`), now)
	if !d.Valid() || d.Time.Day() != 5 {
		t.Fatalf("unexpected parse: %v", d)
	}

	d = CoerceDate(json.RawMessage(`"not a date"`), now)
	if d.Valid() || d.Raw != "not a date" || d.String() != "not a date" {
		t.Fatalf("unparseable date should keep raw text, got %+v", d)
	}

	d = CoerceDate(json.RawMessage(`1704412800000`), now)
	if !d.Valid() || d.Time.UTC().Format(time.DateOnly) != "2024-01-05" {
		t.Fatalf("epoch millis not parsed: %v", d)
	}
}

func TestDecodeExpense(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	e := DecodeExpense([]byte(`{"id":"x","amount":"nope"}`), now)
	if e.ID != 0 || e.Name != "" || !e.Amount.Equal(Zero) || e.Category != DefaultCategory || !e.Date.Time.Equal(now) || e.Notes != "" {
		t.Fatalf("unexpected defaults: %+v", e)
	}

	e = DecodeExpense([]byte(`"garbage"`), now)
	if e.Category != DefaultCategory || e.ID != 0 {
		t.Fatalf("non-object should decode to defaults: %+v", e)
	}
}

func TestExpenseJSONShape(t *testing.T) {
	e := Expense{
		ID:       7,
		Name:     "Coffee",
		Amount:   NewMoney(4.5),
		Category: "Food",
		Date:     NewDate(2024, 1, 5),
		Notes:    "n",
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":7,"name":"Coffee","amount":4.5,"category":"Food","date":"2024-01-05T00:00:00.000Z","notes":"n"}`
	if string(b) != want {
		t.Fatalf("got %s\nwant %s", b, want)
	}

	var back Expense
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != e.ID || back.Name != e.Name || !back.Amount.Equal(e.Amount) || !back.Date.Time.Equal(e.Date.Time) {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}
