package types

import "fmt"

// SeqMode selects how a sequence number is rendered on the tape.
// The zero value is SeqNone.
type SeqMode uint8

// Sequence modes. SeqCustom renders the state's custom prefix before
// the number.
const (
	SeqNone SeqMode = iota
	SeqSimple
	SeqCustom
)

var seqModeNames = [...]string{
	SeqNone:   "none",
	SeqSimple: "simple",
	SeqCustom: "custom",
}

// String returns the persisted name of the mode.
func (m SeqMode) String() string {
	if int(m) < len(seqModeNames) {
		return seqModeNames[m]
	}
	return fmt.Sprintf("SeqMode(%d)", uint8(m))
}

// Valid reports whether m is one of the declared modes.
func (m SeqMode) Valid() bool {
	return int(m) < len(seqModeNames)
}

// ParseSeqMode maps a persisted name to a SeqMode.
// The second result is false for any other string.
func ParseSeqMode(s string) (SeqMode, bool) {
	for i, name := range seqModeNames {
		if name == s {
			return SeqMode(i), true
		}
	}
	return SeqNone, false
}

// MarshalText encodes the mode by name.
func (m SeqMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSeqMode, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a mode name. Unknown names return
// ErrInvalidSeqMode; lenient decoding of persisted documents goes through
// the migrator instead.
func (m *SeqMode) UnmarshalText(text []byte) error {
	parsed, ok := ParseSeqMode(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidSeqMode, text)
	}
	*m = parsed
	return nil
}
