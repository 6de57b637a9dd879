// Tests for the SQLite key/value backend.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/tally/pkg/types"
)

func attach(t *testing.T, dir string, sc types.SQLiteConfig) *Backend {
	t.Helper()
	b := NewBackend()
	err := b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dir,
		SQLiteConfig: sc,
	})
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	return b
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, types.SQLiteConfig{})
	defer b.Detach()

	if _, err := os.Stat(filepath.Join(tmpDir, dbFile)); err != nil {
		t.Errorf("%s not created: %v", dbFile, err)
	}
	info, err := os.Stat(filepath.Join(tmpDir, kvJSONL))
	if err != nil {
		t.Fatalf("%s not created: %v", kvJSONL, err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty %s, got %d bytes", kvJSONL, info.Size())
	}

	err = b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	if !errors.Is(err, types.ErrAlreadyAttached) {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := attach(t, dir, types.SQLiteConfig{})
	defer b.Detach()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("data dir not created: %v", err)
	}
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{"empty backend", types.Config{DataDir: t.TempDir()}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "redis", DataDir: t.TempDir()}, types.ErrBackendUnknown},
		{"unknown sync", types.Config{
			Backend:      types.BackendSQLite,
			DataDir:      t.TempDir(),
			SQLiteConfig: types.SQLiteConfig{SyncStrategy: "sometimes"},
		}, types.ErrSyncStrategyUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBackend().Attach(tt.config)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBackend_Detach(t *testing.T) {
	b := attach(t, t.TempDir(), types.SQLiteConfig{})

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should be a no-op, got %v", err)
	}

	if _, _, err := b.Get("k"); !errors.Is(err, types.ErrGatewayDetached) {
		t.Errorf("Get after Detach: expected ErrGatewayDetached, got %v", err)
	}
	if err := b.Set("k", "v"); !errors.Is(err, types.ErrGatewayDetached) {
		t.Errorf("Set after Detach: expected ErrGatewayDetached, got %v", err)
	}
	if err := b.Delete("k"); !errors.Is(err, types.ErrGatewayDetached) {
		t.Errorf("Delete after Detach: expected ErrGatewayDetached, got %v", err)
	}
}

func TestBackend_GetSetDelete(t *testing.T) {
	b := attach(t, t.TempDir(), types.SQLiteConfig{})
	defer b.Detach()

	if _, ok, err := b.Get("cc:v3"); err != nil || ok {
		t.Fatalf("Get on empty store: ok=%v err=%v", ok, err)
	}

	if err := b.Set("cc:v3", `{"count":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set("cc:v3", `{"count":2}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok, err := b.Get("cc:v3")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if v != `{"count":2}` {
		t.Errorf("expected last value, got %q", v)
	}

	if err := b.Delete("cc:v3"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := b.Get("cc:v3"); ok {
		t.Error("key still present after Delete")
	}
	if err := b.Delete("never-set"); err != nil {
		t.Errorf("Delete of absent key should succeed, got %v", err)
	}

	if err := b.Set("", "x"); !errors.Is(err, types.ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestBackend_ReattachRestoresFromJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, types.SQLiteConfig{})
	if err := b.Set("cc:v3", `{"count":7}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Set("clicker-state", `{"count":1}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := b.Delete("clicker-state"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	b.Detach()

	b2 := attach(t, tmpDir, types.SQLiteConfig{})
	defer b2.Detach()

	v, ok, err := b2.Get("cc:v3")
	if err != nil || !ok {
		t.Fatalf("Get after reattach: ok=%v err=%v", ok, err)
	}
	if v != `{"count":7}` {
		t.Errorf("expected persisted value, got %q", v)
	}
	if _, ok, _ := b2.Get("clicker-state"); ok {
		t.Error("deleted key came back after reattach")
	}
}

func TestBackend_ImmediateWritesJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, types.SQLiteConfig{SyncStrategy: types.SyncImmediate})
	defer b.Detach()

	if err := b.Set("cc:v3", `{"label":"Widget"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	content := readFile(t, filepath.Join(tmpDir, kvJSONL))
	if !strings.Contains(content, `"key":"cc:v3"`) {
		t.Errorf("kv.jsonl missing record: %s", content)
	}
	if strings.Count(content, "\n") != 1 {
		t.Errorf("expected one line, got %q", content)
	}
}

func TestBackend_OnCloseDefersJSONL(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, types.SQLiteConfig{SyncStrategy: types.SyncOnClose})

	for i := 0; i < 3; i++ {
		if err := b.Set("cc:v3", `{"count":3}`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}
	if got := b.pending(); got != 3 {
		t.Errorf("expected 3 pending writes, got %d", got)
	}
	if content := readFile(t, filepath.Join(tmpDir, kvJSONL)); content != "" {
		t.Errorf("expected kv.jsonl untouched before Detach, got %q", content)
	}

	// Reads see the cache before the file is written.
	if v, _, _ := b.Get("cc:v3"); v != `{"count":3}` {
		t.Errorf("expected cached value, got %q", v)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if content := readFile(t, filepath.Join(tmpDir, kvJSONL)); !strings.Contains(content, `{\"count\":3}`) {
		t.Errorf("expected flushed record, got %q", content)
	}
}

func TestBackend_BatchFlushesAtSize(t *testing.T) {
	tmpDir := t.TempDir()
	b := attach(t, tmpDir, types.SQLiteConfig{
		SyncStrategy:  types.SyncBatch,
		BatchSize:     2,
		BatchInterval: 3600,
	})
	defer b.Detach()

	if err := b.Set("a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if content := readFile(t, filepath.Join(tmpDir, kvJSONL)); content != "" {
		t.Errorf("expected no flush after one write, got %q", content)
	}
	if err := b.Set("b", "2"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := b.pending(); got != 0 {
		t.Errorf("expected queue drained at batch size, got %d", got)
	}
	content := readFile(t, filepath.Join(tmpDir, kvJSONL))
	if strings.Count(content, "\n") != 2 {
		t.Errorf("expected two records, got %q", content)
	}
}

func TestBackend_DeleteOfAbsentKeyQueuesNothing(t *testing.T) {
	b := attach(t, t.TempDir(), types.SQLiteConfig{SyncStrategy: types.SyncOnClose})
	defer b.Detach()

	if err := b.Delete("ghost"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := b.pending(); got != 0 {
		t.Errorf("expected no pending writes, got %d", got)
	}
}
