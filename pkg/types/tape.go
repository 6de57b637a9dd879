// Tape entries recorded by print-to-tape.
package types

// TapeEntry is an immutable snapshot of the counter taken when the
// current count is printed to the tape. The same entry is stored in both
// State.Tape and State.Daily.Entries as independent copies sharing ID.
type TapeEntry struct {
	ID      string  `json:"id"`      // UUID v7, generated on creation.
	TS      int64   `json:"ts"`      // Creation time, epoch milliseconds.
	Job     string  `json:"job"`     // Job descriptor at creation.
	Label   string  `json:"label"`   // Label descriptor at creation.
	Seq     *int    `json:"seq"`     // Sequence number; nil when sequencing was off.
	SeqMode SeqMode `json:"seqMode"` // Sequence mode in effect.
	SeqText string  `json:"seqText"` // Rendered sequence text; empty when Seq is nil.
	Count   float64 `json:"count"`   // Counter value when recorded.
}

// Clone returns a copy of e that shares no memory with it.
func (e TapeEntry) Clone() TapeEntry {
	if e.Seq != nil {
		seq := *e.Seq
		e.Seq = &seq
	}
	return e
}

// CloneEntries copies a slice of entries. The result is never nil.
func CloneEntries(entries []TapeEntry) []TapeEntry {
	out := make([]TapeEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
