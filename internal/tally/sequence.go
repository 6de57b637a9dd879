// Sequence engine: per-label counters and sequence display text.
package tally

import (
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// DefaultLabelKey buckets every blank label into one sequence counter.
const DefaultLabelKey = "__default__"

// LabelKey normalizes a label into its SeqByLabel key.
func LabelKey(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if key == "" {
		return DefaultLabelKey
	}
	return key
}

// NextSequence returns the next sequence number for label. A missing or
// unusable counter is initialized to 1 in place; the caller persists.
func NextSequence(s *types.State, label string) int {
	if s.SeqByLabel == nil {
		s.SeqByLabel = map[string]int{}
	}
	key := LabelKey(label)
	if s.SeqByLabel[key] < 1 {
		s.SeqByLabel[key] = 1
	}
	return s.SeqByLabel[key]
}

// PeekSequence returns the number NextSequence would return without
// touching s.
func PeekSequence(s types.State, label string) int {
	if n := s.SeqByLabel[LabelKey(label)]; n >= 1 {
		return n
	}
	return 1
}

// Advance records that used was consumed for label.
func Advance(s *types.State, label string, used int) {
	if s.SeqByLabel == nil {
		s.SeqByLabel = map[string]int{}
	}
	s.SeqByLabel[LabelKey(label)] = used + 1
}

// ResetForLabel restarts label's sequence at 1.
func ResetForLabel(s *types.State, label string) {
	if s.SeqByLabel == nil {
		s.SeqByLabel = map[string]int{}
	}
	s.SeqByLabel[LabelKey(label)] = 1
}

// FormatText renders the display text for seq under mode. A nil seq or
// SeqNone renders as the empty string. customPrefix is used only by
// SeqCustom.
func FormatText(mode types.SeqMode, seq *int, customPrefix string) string {
	if seq == nil || mode == types.SeqNone {
		return ""
	}
	num := "#" + strconv.Itoa(*seq)
	if mode == types.SeqCustom {
		if prefix := strings.TrimSpace(customPrefix); prefix != "" {
			return prefix + " " + num
		}
	}
	return num
}
