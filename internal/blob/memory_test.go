package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Get(ctx, "expenses"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := m.Set(ctx, "expenses", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := m.Get(ctx, "expenses")
	if err != nil || !ok || v != "[]" {
		t.Fatalf("unexpected get result %q %v %v", v, ok, err)
	}
}

func TestMemoryFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "goals.json"), []byte(`[{"category":"Salary"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewMemoryFromDir(dir)
	if err != nil {
		t.Fatalf("NewMemoryFromDir: %v", err)
	}
	if keys := m.Keys(); len(keys) != 1 || keys[0] != "goals" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestMemoryFromMissingDir(t *testing.T) {
	m, err := NewMemoryFromDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("missing dir should not fail: %v", err)
	}
	if len(m.Keys()) != 0 {
		t.Fatal("expected empty store")
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	_ = m.Close()
	if err := m.Set(context.Background(), "k", "v"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestMemoryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMemory().Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
