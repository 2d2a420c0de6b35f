package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"spesa/internal/kv"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, ok, err := s.Get(ctx, kv.ExpensesKey); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, kv.ExpensesKey, `[{"id":1}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, kv.ExpensesKey, `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	// A second store over the same directory sees the persisted value.
	s2, _ := New(dir)
	v, ok, err := s2.Get(ctx, kv.ExpensesKey)
	if err != nil || !ok || v != "[]" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "expenses_v1.json" {
		t.Fatalf("expected only the document file, got %v", entries)
	}

	if err := s.Delete(ctx, kv.ExpensesKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, kv.ExpensesKey); err != nil {
		t.Fatalf("delete of absent key should succeed: %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, _ := New(t.TempDir())
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := s.Set(context.Background(), key, "x"); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
