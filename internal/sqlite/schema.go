package sqlite

// Schema DDL. The kv table mirrors kv.jsonl one row per key.
const (
	createKV = `CREATE TABLE kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxKVUpdated = `CREATE INDEX idx_kv_updated ON kv(updated_at);`
)

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createKV,
	idxKVUpdated,
}
