// JSONL loading at Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
)

// loadKVJSONL reads kv.jsonl from dataDir into the kv table. Loading is
// transactional: all records land or none do. Malformed lines and records
// without a key are skipped; unknown fields are ignored. A key repeated in
// the file keeps its last value.
func loadKVJSONL(db *sql.DB, dataDir string) error {
	records, err := readJSONL(filepath.Join(dataDir, kvJSONL))
	if err != nil {
		return fmt.Errorf("reading %s: %w", kvJSONL, err)
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert for kv: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var kv kvJSON
		if err := json.Unmarshal(rec, &kv); err != nil || kv.Key == "" {
			continue
		}
		if _, err := stmt.Exec(kv.Key, kv.Value, kv.UpdatedAt); err != nil {
			return fmt.Errorf("loading %s: %w", kv.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// dumpKV returns every row of the kv table ordered by key.
func dumpKV(db *sql.DB) ([]kvJSON, error) {
	rows, err := db.Query(`SELECT key, value, updated_at FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying kv: %w", err)
	}
	defer rows.Close()

	var out []kvJSON
	for rows.Next() {
		var kv kvJSON
		if err := rows.Scan(&kv.Key, &kv.Value, &kv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning kv: %w", err)
		}
		out = append(out, kv)
	}
	return out, rows.Err()
}
