package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/internal/memory"
	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newTestModel(t *testing.T) (Model, *tally.Session) {
	t.Helper()
	now := time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)
	s := tally.Open(memory.New(), tally.WithClock(func() time.Time { return now }))
	return New(s, Options{DarkBackground: func() bool { return true }}), s
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestCountingKeys(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "up", "+", "k", "=")
	assert.Equal(t, int64(4), s.Count())

	m = press(t, m, "down", "-")
	assert.Equal(t, int64(2), s.Count())

	m = press(t, m, "0")
	assert.Equal(t, int64(0), s.Count())
	assert.Equal(t, "Count reset", m.status)
	assert.Contains(t, m.View(), "0")
}

func TestPrintKey(t *testing.T) {
	m, s := newTestModel(t)
	m = press(t, m, "+", "+", "+", "p")

	assert.Equal(t, int64(0), s.Count())
	require.Len(t, s.Tape(), 1)
	assert.Equal(t, "Printed #1 (3)", m.status)

	view := m.View()
	assert.Contains(t, view, "Today (1)")
	assert.Contains(t, view, "Next: #2")
}

func TestEditLabel(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "l")
	assert.Equal(t, editLabel, m.editing)
	m = press(t, m, "W", "i", "d", "g", "e", "t")
	assert.Equal(t, "", s.Snapshot().Label, "nothing saved until enter")
	assert.Equal(t, int64(0), s.Count(), "typed keys do not count")

	m = press(t, m, "enter")
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "Widget", s.Snapshot().Label)
	assert.Contains(t, m.View(), "Widget")
}

func TestEditJobCancel(t *testing.T) {
	m, s := newTestModel(t)
	s.SetJob("Line 1")

	m = press(t, m, "J", "x", "esc")
	assert.Equal(t, editNone, m.editing)
	assert.Equal(t, "Line 1", s.Snapshot().Job)
}

func TestSequenceKeys(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "s")
	assert.False(t, s.Snapshot().SeqEnabled)
	assert.Equal(t, "Sequence off", m.status)

	m = press(t, m, "s", "m")
	assert.True(t, s.Snapshot().SeqEnabled)
	assert.Equal(t, types.SeqCustom, s.Snapshot().SeqTitleMode)
	m = press(t, m, "m", "m")
	assert.Equal(t, types.SeqSimple, s.Snapshot().SeqTitleMode)
}

func TestToggleKeys(t *testing.T) {
	m, s := newTestModel(t)

	m = press(t, m, "c")
	assert.True(t, s.Snapshot().Toggles.Compact)

	m = press(t, m, "t")
	assert.Equal(t, types.ThemeLight, s.Snapshot().Toggles.Theme)
	assert.Equal(t, "Theme: light", m.status)
	m = press(t, m, "t", "t")
	assert.Equal(t, types.ThemeSystem, s.Snapshot().Toggles.Theme)

	m = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
}

func TestCompactLimitsEntries(t *testing.T) {
	m, s := newTestModel(t)
	for i := 0; i < 5; i++ {
		s.PrintToTape()
	}
	assert.NotContains(t, m.View(), "more")

	s.SetCompact(true)
	assert.Contains(t, m.View(), "… 2 more")
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReportShowsRejectedSetting(t *testing.T) {
	m, s := newTestModel(t)

	m.report(s.SetTheme(types.Theme(9)), "Theme: dark")
	assert.Contains(t, m.status, types.ErrInvalidTheme.Error())
	assert.Equal(t, types.ThemeSystem, s.Snapshot().Toggles.Theme)

	m.report(s.SetSeqTitleMode(types.SeqMode(9)), "Sequence style: custom")
	assert.Contains(t, m.status, types.ErrInvalidSeqMode.Error())

	m.report(nil, "Theme: dark")
	assert.Equal(t, "Theme: dark", m.status)
}

func TestSettingKeysShowSaveFailure(t *testing.T) {
	gw := memory.New()
	s := tally.Open(gw)
	m := New(s, Options{DarkBackground: func() bool { return true }})
	gw.FailSet = true

	m = press(t, m, "m")
	assert.Contains(t, m.status, "Not saved")
	assert.Equal(t, types.SeqCustom, s.Snapshot().SeqTitleMode)

	m = press(t, m, "t")
	assert.Contains(t, m.status, "Not saved")
	assert.Equal(t, types.ThemeLight, s.Snapshot().Toggles.Theme)
}

func TestSaveFailureShowsStatus(t *testing.T) {
	gw := memory.New()
	s := tally.Open(gw)
	m := New(s, Options{DarkBackground: func() bool { return false }})
	gw.FailSet = true

	m = press(t, m, "+")
	assert.Contains(t, m.status, "Not saved")
	assert.Equal(t, int64(1), s.Count())
}
