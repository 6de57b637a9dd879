// Session owns the counter State and applies every mutation to it.
package tally

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Session is the single owner of a State. Every mutator changes the state
// in memory and then saves it through the Gateway. Saving is best effort:
// a failed write is logged and recorded in Err, and the in-memory state
// stays authoritative for the rest of the session.
//
// A Session is not safe for concurrent use; callers drive it from one
// goroutine, one action at a time.
type Session struct {
	gw    types.Gateway
	set   settings
	state types.State
	err   error
}

// Open loads the state from gw and returns a Session owning it. The
// canonical key is read first; when it is empty each legacy key is tried,
// migrated, written under the canonical key and deleted. Unreadable or
// unparseable data falls back to the default state.
func Open(gw types.Gateway, opts ...Option) *Session {
	s := &Session{gw: gw, set: newSettings(opts)}
	s.state = s.load()
	s.ensureToday()
	return s
}

func (s *Session) load() types.State {
	log := s.set.logger
	defaults := func() types.State {
		return types.DefaultState(LocalDateISO(s.set.now()))
	}

	stored, ok, err := s.gw.Get(s.set.key)
	if err != nil {
		log.Error("failed to load state", "key", s.set.key, "error", err)
		return defaults()
	}
	if ok && stored != "" {
		raw, err := decodeDocument(stored)
		if err != nil {
			log.Error("failed to load state", "key", s.set.key, "error", err)
			return defaults()
		}
		s.state = migrate(raw, s.set)
		s.save()
		return s.state
	}

	for _, key := range s.set.legacyKeys {
		legacy, ok, err := s.gw.Get(key)
		if err != nil {
			log.Error("failed to load legacy state", "key", key, "error", err)
			return defaults()
		}
		if !ok || legacy == "" {
			continue
		}
		raw, err := decodeDocument(legacy)
		if err != nil {
			log.Error("failed to load legacy state", "key", key, "error", err)
			return defaults()
		}
		s.state = migrate(raw, s.set)
		s.save()
		if err := s.gw.Delete(key); err != nil {
			log.Warn("unable to remove legacy state", "key", key, "error", err)
		}
		log.Info("migrated legacy state", "from", key, "to", s.set.key)
		return s.state
	}
	return defaults()
}

func (s *Session) save() {
	data, err := json.Marshal(s.state)
	if err == nil {
		err = s.gw.Set(s.set.key, string(data))
	}
	if err != nil {
		s.err = err
		s.set.logger.Error("failed to save state", "key", s.set.key, "error", err)
		return
	}
	s.err = nil
}

// ensureToday rolls the daily log over and saves if it changed.
func (s *Session) ensureToday() {
	if EnsureToday(&s.state, s.set.now()) {
		s.save()
	}
}

// Err returns the error from the most recent save, or nil if it succeeded.
func (s *Session) Err() error {
	return s.err
}

// ChangeCount adds delta to the count, saturating at plus or minus
// MaxCount.
func (s *Session) ChangeCount(delta int64) {
	s.state.Count = addCount(s.state.Count, delta)
	s.save()
}

// Increment adds one step.
func (s *Session) Increment() {
	s.ChangeCount(s.state.Step)
}

// Decrement subtracts one step.
func (s *Session) Decrement() {
	s.ChangeCount(-s.state.Step)
}

// ResetCount sets the count to zero.
func (s *Session) ResetCount() {
	s.state.Count = 0
	s.save()
}

// SetStep sets the step, raising anything below 1 to 1 and lowering
// anything above MaxCount to MaxCount.
func (s *Session) SetStep(step int64) {
	s.state.Step = min(max(step, 1), MaxCount)
	s.save()
}

// SetStepInput sets the step from free text. Numbers floor; anything that
// is not a positive number becomes 1. It returns the step applied.
func (s *Session) SetStepInput(input string) int64 {
	s.state.Step = coerceStep(input, 1)
	s.save()
	return s.state.Step
}

// SetJob sets the job descriptor for future entries.
func (s *Session) SetJob(job string) {
	s.state.Job = job
	s.save()
}

// SetLabel sets the label descriptor for future entries. The label also
// selects which sequence counter is used.
func (s *Session) SetLabel(label string) {
	s.state.Label = label
	s.save()
}

// SetSeqEnabled turns sequence numbering on or off.
func (s *Session) SetSeqEnabled(enabled bool) {
	s.state.SeqEnabled = enabled
	s.save()
}

// SetSeqTitleMode selects how sequence numbers render.
func (s *Session) SetSeqTitleMode(mode types.SeqMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %s", types.ErrInvalidSeqMode, mode)
	}
	s.state.SeqTitleMode = mode
	s.save()
	return nil
}

// SetSeqTitleCustom sets the prefix used by SeqCustom.
func (s *Session) SetSeqTitleCustom(prefix string) {
	s.state.SeqTitleCustom = prefix
	s.save()
}

// ResetSequence restarts the current label's sequence at 1.
func (s *Session) ResetSequence() {
	ResetForLabel(&s.state, s.state.Label)
	s.save()
}

// SetSound toggles audible feedback.
func (s *Session) SetSound(on bool) {
	s.state.Toggles.Sound = on
	s.save()
}

// SetHaptics toggles haptic feedback.
func (s *Session) SetHaptics(on bool) {
	s.state.Toggles.Haptics = on
	s.save()
}

// SetTheme selects the presentation theme.
func (s *Session) SetTheme(theme types.Theme) error {
	if _, err := theme.MarshalText(); err != nil {
		return err
	}
	s.state.Toggles.Theme = theme
	s.save()
	return nil
}

// SetCompact toggles compact presentation.
func (s *Session) SetCompact(on bool) {
	s.state.Toggles.Compact = on
	s.save()
}

// PrintToTape records the current count as a new entry at the head of both
// the tape and today's log, consumes a sequence number when sequencing is
// on, and resets the count to zero.
func (s *Session) PrintToTape() types.TapeEntry {
	EnsureToday(&s.state, s.set.now())

	entry := types.TapeEntry{
		ID:      s.set.newID(),
		TS:      s.set.now().UnixMilli(),
		Job:     strings.TrimSpace(s.state.Job),
		Label:   strings.TrimSpace(s.state.Label),
		SeqMode: types.SeqNone,
		Count:   float64(s.state.Count),
	}
	if s.state.SeqEnabled {
		seq := NextSequence(&s.state, s.state.Label)
		entry.Seq = &seq
		entry.SeqMode = s.state.SeqTitleMode
		entry.SeqText = FormatText(entry.SeqMode, entry.Seq, s.state.SeqTitleCustom)
		Advance(&s.state, s.state.Label, seq)
	}

	s.state.Tape = prepend(s.state.Tape, entry.Clone())
	s.state.Daily.Entries = prepend(s.state.Daily.Entries, entry.Clone())
	s.state.Count = 0
	s.save()
	return entry
}

// ClearTape empties the tape. Today's log is kept. It returns false, and
// saves nothing, when the tape is already empty.
func (s *Session) ClearTape() bool {
	if len(s.state.Tape) == 0 {
		return false
	}
	s.state.Tape = []types.TapeEntry{}
	s.save()
	return true
}

// ClearDay resets the tape, today's log, every sequence counter and the
// count in one step, then saves once. It reports whether there was
// anything to clear.
func (s *Session) ClearDay() bool {
	hadData := s.state.Count != 0 ||
		len(s.state.Tape) > 0 ||
		len(s.state.Daily.Entries) > 0 ||
		len(s.state.SeqByLabel) > 0

	s.state.Tape = []types.TapeEntry{}
	s.state.Daily = types.DailyLog{
		DateISO: LocalDateISO(s.set.now()),
		Entries: []types.TapeEntry{},
	}
	s.state.SeqByLabel = map[string]int{}
	s.state.Count = 0
	s.save()
	return hadData
}

// Import replaces the state with a migrated copy of data, a JSON document
// in the persisted format (any generation). Data that is not JSON is
// rejected and the state is left alone.
func (s *Session) Import(data []byte) error {
	next, err := MigrateJSON(data, s.options()...)
	if err != nil {
		return fmt.Errorf("import state: %w", err)
	}
	s.state = next
	s.save()
	return nil
}

// options rebuilds the Session's settings as Options for package helpers.
func (s *Session) options() []Option {
	return []Option{
		WithClock(s.set.now),
		WithIDGenerator(s.set.newID),
		WithLogger(s.set.logger),
	}
}

func prepend(entries []types.TapeEntry, e types.TapeEntry) []types.TapeEntry {
	out := make([]types.TapeEntry, 0, len(entries)+1)
	out = append(out, e)
	return append(out, entries...)
}
