// ABOUTME: Log-interaction dialog for the TUI
// ABOUTME: Friend picker, one-of-four type selector and an optional notes field
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
)

// typeKeys maps a key to the interaction type it selects.
var typeKeys = map[string]models.InteractionType{
	"m": models.InteractionMeetup,
	"c": models.InteractionCall,
	"v": models.InteractionVideo,
	"t": models.InteractionText,
}

var (
	typeSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("170")).
				Padding(0, 1).
				MarginRight(1)

	typeIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) initNotesInput() {
	m.notes = textinput.New()
	m.notes.Placeholder = "Notes (optional)"
	m.notes.CharLimit = 500
	m.notesFocused = false
}

func (m Model) renderLogView(st app.State) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LOG INTERACTION"))
	s.WriteString("\n")

	s.WriteString(lipgloss.NewStyle().Bold(true).Render("Friend"))
	s.WriteString("\n")
	if len(st.Log.Options) == 0 {
		s.WriteString(subtitleStyle.Render("  No friends yet. Add one first."))
		s.WriteString("\n")
	}
	for _, opt := range st.Log.Options {
		marker := "  "
		if opt.ID == st.Log.SelectedFriend {
			marker = "> "
		}
		s.WriteString(marker + opt.Name + "\n")
	}

	s.WriteString("\n")
	s.WriteString(lipgloss.NewStyle().Bold(true).Render("Type"))
	s.WriteString("\n")
	var buttons []string
	for _, t := range models.InteractionTypes {
		label := fmt.Sprintf("%s (%s)", t.Label(), strings.ToLower(t.Label()[:1]))
		if t == st.Log.SelectedType {
			buttons = append(buttons, typeSelectedStyle.Render(label))
		} else {
			buttons = append(buttons, typeIdleStyle.Render(label))
		}
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	s.WriteString("\n\n")

	if m.notesFocused {
		s.WriteString("> ")
	} else {
		s.WriteString("  ")
	}
	s.WriteString(m.notes.View())
	s.WriteString("\n")

	s.WriteString(m.renderToasts())
	s.WriteString("\n")

	help := []string{
		"↑/↓: Friend",
		"m/c/v/t: Type",
		"Tab: Notes",
		"Enter: Log",
		"Esc: Cancel",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) handleLogKeys(msg tea.KeyMsg, st app.State) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "esc":
		return m, m.dispatch(app.KeyEscape{})
	case "tab":
		m.notesFocused = !m.notesFocused
		if m.notesFocused {
			m.notes.Focus()
		} else {
			m.notes.Blur()
		}
		return m, nil
	case "enter":
		return m, m.dispatch(app.SubmitInteraction{Notes: m.notes.Value()})
	}

	if m.notesFocused {
		var cmd tea.Cmd
		m.notes, cmd = m.notes.Update(msg)
		return m, cmd
	}

	switch key {
	case "up", "k":
		if id, ok := stepOption(st.Log, -1); ok {
			return m, m.dispatch(app.SelectFriend{ID: id})
		}
	case "down", "j":
		if id, ok := stepOption(st.Log, 1); ok {
			return m, m.dispatch(app.SelectFriend{ID: id})
		}
	default:
		if t, ok := typeKeys[key]; ok {
			return m, m.dispatch(app.SelectInteractionType{Type: t})
		}
	}
	return m, nil
}

// stepOption moves the friend selection by delta, clamped to the list.
// With nothing selected any move picks the first friend.
func stepOption(log app.LogModalState, delta int) (int, bool) {
	if len(log.Options) == 0 {
		return 0, false
	}
	current := -1
	for i, opt := range log.Options {
		if opt.ID == log.SelectedFriend {
			current = i
			break
		}
	}
	next := 0
	if current >= 0 {
		next = min(max(current+delta, 0), len(log.Options)-1)
		if next == current {
			return 0, false
		}
	}
	return log.Options[next].ID, true
}
