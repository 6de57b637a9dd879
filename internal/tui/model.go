// Package tui is the interactive terminal counter built on bubbletea.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// editField is the descriptor the text input is editing.
type editField int

const (
	editNone editField = iota
	editLabel
	editJob
)

// Options configures a Model.
type Options struct {
	// DarkBackground reports whether the terminal is dark, for the system
	// theme. Nil means lipgloss.HasDarkBackground.
	DarkBackground func() bool
}

// Model is the bubbletea model driving one Session.
type Model struct {
	session *tally.Session
	keys    keyMap
	help    help.Model
	input   textinput.Model
	editing editField
	dark    func() bool
	styles  styles
	status  string
	width   int
}

// New returns a Model over s.
func New(s *tally.Session, opts Options) Model {
	dark := opts.DarkBackground
	if dark == nil {
		dark = lipgloss.HasDarkBackground
	}
	ti := textinput.New()
	ti.CharLimit = 80

	m := Model{
		session: s,
		keys:    newKeyMap(),
		help:    help.New(),
		input:   ti,
		dark:    dark,
	}
	m.restyle()
	return m
}

// Run drives s interactively until the user quits.
func Run(s *tally.Session, in io.Reader, out io.Writer, opts Options) error {
	p := tea.NewProgram(New(s, opts), tea.WithInput(in), tea.WithOutput(out))
	_, err := p.Run()
	return err
}

func (m *Model) restyle() {
	m.styles = newStyles(m.session.Snapshot().Toggles.Theme, m.dark)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.editing != editNone {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Increment):
		s.Increment()
	case key.Matches(msg, m.keys.Decrement):
		s.Decrement()
	case key.Matches(msg, m.keys.Reset):
		s.ResetCount()
		m.status = "Count reset"
	case key.Matches(msg, m.keys.Print):
		e := s.PrintToTape()
		m.status = "Printed " + describe(e)
	case key.Matches(msg, m.keys.Label):
		return m.startEditing(editLabel, s.Snapshot().Label)
	case key.Matches(msg, m.keys.Job):
		return m.startEditing(editJob, s.Snapshot().Job)
	case key.Matches(msg, m.keys.Sequence):
		s.SetSeqEnabled(!s.Snapshot().SeqEnabled)
		m.status = s.SequenceDisplay()
	case key.Matches(msg, m.keys.Mode):
		err := s.SetSeqTitleMode(nextMode(s.Snapshot().SeqTitleMode))
		m.report(err, "Sequence style: "+s.Snapshot().SeqTitleMode.String())
	case key.Matches(msg, m.keys.Compact):
		s.SetCompact(!s.Snapshot().Toggles.Compact)
	case key.Matches(msg, m.keys.Theme):
		err := s.SetTheme(nextTheme(s.Snapshot().Toggles.Theme))
		m.restyle()
		m.report(err, "Theme: "+s.Snapshot().Toggles.Theme.String())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	if err := s.Err(); err != nil {
		m.status = "Not saved: " + err.Error()
	}
	return m, nil
}

// report sets the status line to err, or to ok when err is nil.
func (m *Model) report(err error, ok string) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ok
}

func (m Model) startEditing(field editField, value string) (tea.Model, tea.Cmd) {
	m.editing = field
	m.input.Prompt = "Label: "
	if field == editJob {
		m.input.Prompt = "Job: "
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.input.Value()
		if m.editing == editJob {
			m.session.SetJob(value)
		} else {
			m.session.SetLabel(value)
		}
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case tea.KeyEsc, tea.KeyCtrlC:
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	snap := m.session.Snapshot()
	st := m.styles
	var b strings.Builder

	title := "tally"
	if snap.Label != "" {
		title += " · " + snap.Label
	}
	if snap.Job != "" {
		title += " · " + snap.Job
	}
	b.WriteString(st.Title.Render(title) + "  " + st.Muted.Render(m.session.DateISO()) + "\n")
	b.WriteString(st.Count.Render(fmt.Sprintf("%d", snap.Count)) + "\n")
	b.WriteString(st.Muted.Render(fmt.Sprintf("step %d · %s", snap.Step, m.session.SequenceDisplay())) + "\n")

	if m.editing != editNone {
		b.WriteString(st.Input.Render(m.input.View()) + "\n")
	}

	entries := m.session.DailyEntries()
	limit := 8
	if snap.Toggles.Compact {
		limit = 3
	}
	if len(entries) > 0 {
		b.WriteString("\n" + st.Muted.Render(fmt.Sprintf("Today (%d)", len(entries))) + "\n")
		for i, e := range entries {
			if i == limit {
				b.WriteString(st.Muted.Render(fmt.Sprintf("  … %d more", len(entries)-limit)) + "\n")
				break
			}
			b.WriteString(st.Entry.Render("  "+entryLine(e)) + "\n")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + st.Status.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// entryLine renders one tape entry as "15:04  label  #3  12".
func entryLine(e types.TapeEntry) string {
	parts := []string{time.UnixMilli(e.TS).Format("15:04")}
	if e.Label != "" {
		parts = append(parts, e.Label)
	}
	if e.SeqText != "" {
		parts = append(parts, e.SeqText)
	}
	parts = append(parts, fmt.Sprintf("%g", e.Count))
	return strings.Join(parts, "  ")
}

func describe(e types.TapeEntry) string {
	if e.SeqText != "" {
		return fmt.Sprintf("%s (%g)", e.SeqText, e.Count)
	}
	return fmt.Sprintf("%g", e.Count)
}

func nextMode(m types.SeqMode) types.SeqMode {
	switch m {
	case types.SeqSimple:
		return types.SeqCustom
	case types.SeqCustom:
		return types.SeqNone
	}
	return types.SeqSimple
}

func nextTheme(t types.Theme) types.Theme {
	switch t {
	case types.ThemeSystem:
		return types.ThemeLight
	case types.ThemeLight:
		return types.ThemeDark
	}
	return types.ThemeSystem
}
