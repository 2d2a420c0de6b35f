package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentRecords, Output: &buf})

	l.Info("Loaded records", FieldCount, 3)
	l.WithComponent(ComponentPrefs).Debug("Loaded preferences")

	out := buf.String()
	if !strings.Contains(out, "component=records") || !strings.Contains(out, "count=3") {
		t.Fatalf("missing fields in %q", out)
	}
	if !strings.Contains(out, "component=prefs") {
		t.Fatalf("WithComponent did not retag: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentSession).
		WithOperation(OpCreate).
		WithError(errors.New("boom")).
		WithExpense(1, "Coffee", "4.50", "Food")
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("ToSlice length mismatch")
	}
	if f[FieldError] != "boom" || f[FieldExpenseID] != int64(1) {
		t.Fatalf("unexpected fields: %v", f)
	}
	if _, ok := NewFields().WithError(nil)[FieldError]; ok {
		t.Fatalf("nil error must not add a field")
	}
}
