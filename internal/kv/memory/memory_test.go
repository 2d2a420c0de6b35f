package memory

import (
	"context"
	"errors"
	"testing"

	"spesa/internal/kv"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, kv.ExpensesKey); ok || err != nil {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, kv.ExpensesKey, "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := s.Get(ctx, kv.ExpensesKey)
	if err != nil || !ok || v != "[]" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}
	if err := s.Delete(ctx, kv.ExpensesKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, kv.ExpensesKey); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestMemoryStoreSeedAndClose(t *testing.T) {
	ctx := context.Background()
	s := NewWith(map[string]string{kv.PrefsKey: `{"theme":"light"}`})
	if v, ok, _ := s.Get(ctx, kv.PrefsKey); !ok || v != `{"theme":"light"}` {
		t.Fatalf("seed missing: %q", v)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Set(ctx, kv.PrefsKey, "{}"); !errors.Is(err, kv.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
