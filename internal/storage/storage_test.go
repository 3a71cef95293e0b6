package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// exerciseProvider checks the key-value contract shared by every backend.
func exerciseProvider(t *testing.T, p Provider) {
	t.Helper()

	if _, err := p.Get("productivityTasks"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: expected ErrNotFound, got %v", err)
	}

	if err := p.Put("productivityTasks", []byte(`[]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := p.Put("claimedRewards", []byte(`{"Fri Oct 16 2026":{"50":true}}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	// Last write wins.
	if err := p.Put("productivityTasks", []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := p.Get("productivityTasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Errorf("Get = %s, want [{\"id\":1}]", got)
	}

	keys, err := p.Keys()
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"claimedRewards", "productivityTasks"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseProvider(t, s)

	// Returned slices must not alias stored values.
	v, _ := s.Get("productivityTasks")
	v[0] = 'X'
	again, _ := s.Get("productivityTasks")
	if again[0] == 'X' {
		t.Error("Get returned an aliased slice")
	}

	if s.GetConfigPath() != "memory" {
		t.Errorf("GetConfigPath = %q", s.GetConfigPath())
	}
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "focusblocks.json")

	s := NewJSONStore(path)
	if _, err := s.Get("x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded before Init, got %v", err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	exerciseProvider(t, s)

	if err := s.Init(); err == nil {
		t.Error("expected error initializing an existing store")
	}

	// A second store over the same file sees the persisted entries.
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := reopened.Get("claimedRewards")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if string(got) != `{"Fri Oct 16 2026":{"50":true}}` {
		t.Errorf("reloaded value = %s", got)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
}

func TestJSONStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()

	missing := NewJSONStore(filepath.Join(dir, "missing.json"))
	if err := missing.Load(); err == nil {
		t.Error("expected error loading a missing file")
	}

	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := NewJSONStore(corrupt).Load(); err == nil {
		t.Error("expected error loading a corrupt file")
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"version":1}`), 0600); err != nil {
		t.Fatal(err)
	}
	s := NewJSONStore(empty)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Put("k", []byte("v")); err != nil {
		t.Errorf("Put on store without entries map failed: %v", err)
	}
}

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	s := setupTestSQLiteStore(t)
	exerciseProvider(t, s)

	current, latest, err := s.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus failed: %v", err)
	}
	if current != latest || current == 0 {
		t.Errorf("schema current=%d latest=%d", current, latest)
	}

	path := s.GetConfigPath()
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get("productivityTasks")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if string(got) != `[{"id":1}]` {
		t.Errorf("reloaded value = %s", got)
	}
}

func TestSQLiteStoreLoadUninitialized(t *testing.T) {
	s := NewSQLiteStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(); err == nil {
		t.Error("expected error loading an uninitialized database")
	}
	if _, err := s.Get("x"); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		config string
		want   Provider
	}{
		{"memory", &MemoryStore{}},
		{"postgres://me@localhost/focus", &PostgresStore{}},
		{"postgresql://me@localhost/focus", &PostgresStore{}},
		{"/tmp/focus.json", &JSONStore{}},
		{"/tmp/FOCUS.JSON", &JSONStore{}},
		{"/tmp/focus.db", &SQLiteStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.config, func(t *testing.T) {
			got := NewProvider(tt.config)
			if reflect.TypeOf(got) != reflect.TypeOf(tt.want) {
				t.Errorf("NewProvider(%q) = %T, want %T", tt.config, got, tt.want)
			}
		})
	}
}
