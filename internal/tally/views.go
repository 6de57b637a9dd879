// Read-only views over a Session's state for rendering and export.
package tally

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Snapshot returns a deep copy of the current state, rolling the daily
// log over first if the date has changed.
func (s *Session) Snapshot() types.State {
	s.ensureToday()
	return s.state.Clone()
}

// Count returns the current count.
func (s *Session) Count() int64 {
	return s.state.Count
}

// Step returns the current step.
func (s *Session) Step() int64 {
	return s.state.Step
}

// Tape returns a copy of the tape, newest first.
func (s *Session) Tape() []types.TapeEntry {
	return types.CloneEntries(s.state.Tape)
}

// DailyEntries returns a copy of today's log, newest first, rolling the log
// over first if the date has changed.
func (s *Session) DailyEntries() []types.TapeEntry {
	s.ensureToday()
	return types.CloneEntries(s.state.Daily.Entries)
}

// DateISO returns the date of the daily log after rollover.
func (s *Session) DateISO() string {
	s.ensureToday()
	return s.state.Daily.DateISO
}

// SequenceDisplay describes the number the next printed entry will get:
// "Sequence off", "Next: #4", or "Next: Batch #4" in custom mode. A number
// hidden on the tape (SeqNone) still shows as "Next: #4".
func (s *Session) SequenceDisplay() string {
	if !s.state.SeqEnabled {
		return "Sequence off"
	}
	seq := PeekSequence(s.state, s.state.Label)
	text := FormatText(s.state.SeqTitleMode, &seq, s.state.SeqTitleCustom)
	if text == "" {
		text = "#" + strconv.Itoa(seq)
	}
	return "Next: " + text
}

// ShareText is the one-line summary offered for sharing.
func (s *Session) ShareText() string {
	label := strings.TrimSpace(s.state.Label)
	if label == "" {
		label = "Untitled item"
	}
	return fmt.Sprintf("%s: %d", label, s.state.Count)
}

// ExportEntries returns every entry on the tape or in today's log, once
// each, oldest first.
func (s *Session) ExportEntries() []types.TapeEntry {
	s.ensureToday()
	return MergeEntries(s.state.Tape, s.state.Daily.Entries)
}

// ExportFilename names the CSV file for today's export.
func (s *Session) ExportFilename() string {
	return "tally-" + s.DateISO() + ".csv"
}

// MergeEntries unions tape and daily, deduplicated by ID with the tape copy
// winning, sorted by timestamp ascending. Entries with equal timestamps
// keep their first-seen order.
func MergeEntries(tape, daily []types.TapeEntry) []types.TapeEntry {
	index := make(map[string]int, len(tape)+len(daily))
	out := make([]types.TapeEntry, 0, len(tape)+len(daily))
	put := func(e types.TapeEntry) {
		if i, ok := index[e.ID]; ok {
			out[i] = e.Clone()
			return
		}
		index[e.ID] = len(out)
		out = append(out, e.Clone())
	}
	for _, e := range daily {
		put(e)
	}
	for _, e := range tape {
		put(e)
	}
	slices.SortStableFunc(out, func(a, b types.TapeEntry) int {
		return cmp.Compare(a.TS, b.TS)
	})
	return out
}
