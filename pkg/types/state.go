package types

// DailyLog holds the entries printed since the last local-date rollover.
type DailyLog struct {
	DateISO string      `json:"dateISO"` // Local calendar date, YYYY-MM-DD.
	Entries []TapeEntry `json:"entries"` // Newest first.
}

// State is the persisted counter document. A single Session owns one
// State for the lifetime of the process.
type State struct {
	Count          int64          `json:"count"`
	Step           int64          `json:"step"`
	Job            string         `json:"job"`
	Label          string         `json:"label"`
	SeqEnabled     bool           `json:"seqEnabled"`
	SeqTitleMode   SeqMode        `json:"seqTitleMode"`
	SeqTitleCustom string         `json:"seqTitleCustom"`
	SeqByLabel     map[string]int `json:"seqByLabel"` // Next sequence per label key.
	Tape           []TapeEntry    `json:"tape"`       // Newest first.
	Daily          DailyLog       `json:"daily"`
	Toggles        Toggles        `json:"toggles"`
}

// DefaultState returns the canonical empty document dated today.
// Every call returns fresh maps and slices.
func DefaultState(today string) State {
	return State{
		Count:        0,
		Step:         1,
		SeqEnabled:   true,
		SeqTitleMode: SeqSimple,
		SeqByLabel:   map[string]int{},
		Tape:         []TapeEntry{},
		Daily: DailyLog{
			DateISO: today,
			Entries: []TapeEntry{},
		},
		Toggles: Toggles{Theme: ThemeSystem},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.SeqByLabel = make(map[string]int, len(s.SeqByLabel))
	for k, v := range s.SeqByLabel {
		out.SeqByLabel[k] = v
	}
	out.Tape = CloneEntries(s.Tape)
	out.Daily.Entries = CloneEntries(s.Daily.Entries)
	return out
}
