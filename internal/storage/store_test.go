package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func providers(t *testing.T) map[string]Provider {
	t.Helper()
	dir := t.TempDir()
	return map[string]Provider{
		"sqlite": NewSQLiteStore(filepath.Join(dir, "arise.db")),
		"json":   NewJSONStore(filepath.Join(dir, "arise.json")),
		"memory": NewMemoryStore(),
	}
}

func TestProviderRoundTrip(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			defer p.Close()

			if _, err := p.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}

			if err := p.Set("b", "1"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := p.Set("a", "2"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := p.Set("b", "3"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}

			v, err := p.Get("b")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if v != "3" {
				t.Errorf("expected 3, got %q", v)
			}

			keys, err := p.Keys()
			if err != nil {
				t.Fatalf("Keys failed: %v", err)
			}
			if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
				t.Errorf("expected sorted keys [a b], got %v", keys)
			}

			if err := p.Delete("a"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := p.Get("a"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected deleted key to be gone, got %v", err)
			}
		})
	}
}

func TestLoadBeforeInit(t *testing.T) {
	dir := t.TempDir()
	for name, p := range map[string]Provider{
		"sqlite": NewSQLiteStore(filepath.Join(dir, "none.db")),
		"json":   NewJSONStore(filepath.Join(dir, "none.json")),
	} {
		t.Run(name, func(t *testing.T) {
			if err := p.Load(); !errors.Is(err, ErrNotInitialized) {
				t.Errorf("expected ErrNotInitialized, got %v", err)
			}
		})
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		open func() Provider
	}{
		{"sqlite", func() Provider { return NewSQLiteStore(filepath.Join(dir, "arise.db")) }},
		{"json", func() Provider { return NewJSONStore(filepath.Join(dir, "arise.json")) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.open()
			if err := first.Init(); err != nil {
				t.Fatalf("Init failed: %v", err)
			}
			if err := first.Set("player", `{"name":"Jin"}`); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			first.Close()

			second := tt.open()
			if err := second.Load(); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			defer second.Close()

			v, err := second.Get("player")
			if err != nil {
				t.Fatalf("Get after reopen failed: %v", err)
			}
			if v != `{"name":"Jin"}` {
				t.Errorf("unexpected value after reopen: %q", v)
			}
		})
	}
}

func TestSQLiteStoreSchema(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "arise.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	current, latest, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("expected fully migrated schema, got %d of %d", current, latest)
	}

	app, err := store.AppTag()
	if err != nil {
		t.Fatalf("AppTag failed: %v", err)
	}
	if app != "arise" {
		t.Errorf("expected app tag arise, got %q", app)
	}

	// Init on an existing database is a no-op
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	n, err := store.Migrate(nil)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no pending migrations, got %d", n)
	}
}

func TestSQLiteStoreNotLoaded(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "arise.db"))
	if _, err := store.Get("player"); err == nil {
		t.Error("expected error from Get before Load")
	}
	if err := store.Set("player", "{}"); err == nil {
		t.Error("expected error from Set before Load")
	}
}
