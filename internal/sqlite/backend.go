// Package sqlite implements the SQLite storage backend for tally state.
// SQLite is a cache rebuilt from kv.jsonl on every Attach; kv.jsonl is the
// source of truth.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// dbFile is the SQLite cache inside DataDir.
const dbFile = "tally.db"

// Backend implements types.Store using SQLite as the query engine and a
// JSONL file as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *slog.Logger
	now      func() time.Time

	// Sync strategy state
	syncStrategy  string         // effective sync strategy: immediate, on_close, batch
	batchSize     int            // number of writes before batch flush
	batchInterval time.Duration  // time between batch flushes
	pendingWrites []pendingWrite // writes not yet persisted to kv.jsonl
	batchTimer    *time.Timer    // timer for interval-based batch flush
	batchMu       sync.Mutex     // protects pendingWrites and batchTimer
}

// pendingWrite records a deferred JSONL write. Used by the on_close and
// batch strategies. A flush rewrites the whole file once, however many
// writes are queued.
type pendingWrite struct {
	key       string
	operation string // "set" or "delete"
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		logger: slog.Default().With("component", "sqlite"),
		now:    time.Now,
	}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, creates a fresh SQLite schema and
// loads kv.jsonl into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The cache is always rebuilt from kv.jsonl.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	if err := initJSONL(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadKVJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.syncStrategy = config.SQLiteConfig.GetSyncStrategy()
	b.batchSize = config.SQLiteConfig.GetBatchSize()
	b.batchInterval = time.Duration(config.SQLiteConfig.GetBatchInterval()) * time.Second
	b.pendingWrites = nil
	b.attached = true

	if b.syncStrategy == types.SyncBatch && b.batchInterval > 0 {
		b.startBatchTimer()
	}

	b.logger.Debug("attached", "data_dir", dataDir, "sync", b.syncStrategy)
	return nil
}

// Detach releases all resources held by the backend.
// Pending writes are flushed to kv.jsonl before the database is closed.
// After Detach, all operations return ErrGatewayDetached. Detach is
// idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	b.stopBatchTimer()

	flushErr := b.flushPendingWritesLocked()
	if b.db != nil {
		if err := b.db.Close(); err != nil && flushErr == nil {
			flushErr = err
		}
		b.db = nil
	}
	b.attached = false

	if flushErr != nil {
		return fmt.Errorf("flush pending writes: %w", flushErr)
	}
	return nil
}

// Get returns the value stored under key.
func (b *Backend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return "", false, types.ErrGatewayDetached
	}

	var value string
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key and persists according to the sync strategy.
func (b *Backend) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrGatewayDetached
	}

	updated := b.now().UTC().Format(time.RFC3339Nano)
	if _, err := b.db.Exec(
		`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		key, value, updated,
	); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return b.persist(key, "set")
}

// Delete removes key. Deleting an absent key succeeds.
func (b *Backend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrGatewayDetached
	}

	res, err := b.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}
	return b.persist(key, "delete")
}

// persist writes kv.jsonl now or queues the write.
// The caller must hold b.mu write lock.
func (b *Backend) persist(key, operation string) error {
	if b.shouldPersistImmediately() {
		return b.persistLocked()
	}
	return b.queueWrite(key, operation)
}

// persistLocked rewrites kv.jsonl from the kv table.
// The caller must hold b.mu.
func (b *Backend) persistLocked() error {
	records, err := dumpKV(b.db)
	if err != nil {
		return err
	}
	return persistKVJSONL(b.config.DataDir, records)
}

// Sync strategy methods

// shouldPersistImmediately returns true if JSONL writes should happen immediately.
// Returns true for "immediate" strategy (default), false for "on_close" and "batch".
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// queueWrite adds a write to the pending queue. Under the batch strategy
// the queue is flushed once it reaches the batch size.
// The caller must hold b.mu write lock.
func (b *Backend) queueWrite(key, operation string) error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	b.pendingWrites = append(b.pendingWrites, pendingWrite{key: key, operation: operation})

	if b.syncStrategy == types.SyncBatch && b.batchSize > 0 && len(b.pendingWrites) >= b.batchSize {
		return b.flushPendingWritesBatchLocked()
	}
	return nil
}

// flushPendingWritesLocked flushes all pending writes to kv.jsonl.
// The caller must hold b.mu write lock.
func (b *Backend) flushPendingWritesLocked() error {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	return b.flushPendingWritesBatchLocked()
}

// flushPendingWritesBatchLocked persists the queue in one file rewrite.
// The queue is kept on failure so the next flush retries it.
// The caller must hold b.batchMu lock.
func (b *Backend) flushPendingWritesBatchLocked() error {
	if len(b.pendingWrites) == 0 {
		return nil
	}
	if err := b.persistLocked(); err != nil {
		last := b.pendingWrites[len(b.pendingWrites)-1]
		return fmt.Errorf("flush %d writes (last %s %s): %w", len(b.pendingWrites), last.operation, last.key, err)
	}
	b.pendingWrites = nil
	return nil
}

// pending reports the number of queued writes.
func (b *Backend) pending() int {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()
	return len(b.pendingWrites)
}

// startBatchTimer starts the batch interval timer for periodic flushes.
// The caller should ensure this is only called for batch strategy with positive interval.
func (b *Backend) startBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		return
	}

	b.batchTimer = time.AfterFunc(b.batchInterval, func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if !b.attached {
			return
		}

		if err := b.flushPendingWritesLocked(); err != nil {
			b.logger.Error("batch flush failed", "error", err)
		}

		b.batchMu.Lock()
		if b.batchTimer != nil && b.attached {
			b.batchTimer.Reset(b.batchInterval)
		}
		b.batchMu.Unlock()
	})
}

// stopBatchTimer stops the batch interval timer if running.
func (b *Backend) stopBatchTimer() {
	b.batchMu.Lock()
	defer b.batchMu.Unlock()

	if b.batchTimer != nil {
		b.batchTimer.Stop()
		b.batchTimer = nil
	}
}
