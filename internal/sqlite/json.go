// JSON record structures for kv.jsonl.
package sqlite

// kvJSON is one line of kv.jsonl.
type kvJSON struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}
