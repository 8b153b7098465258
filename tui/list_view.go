package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

// selection is a row the d and e keys act on.
type selection struct {
	kind  app.DeleteKind
	id    int
	label string
}

func selectable(st app.State) []selection {
	var friends []models.Friend
	switch st.Page {
	case app.PageDashboard:
		friends = st.Dashboard.Friends
	case app.PageFriends:
		friends = st.Friends
	case app.PageInteractions:
		out := make([]selection, len(st.Interactions))
		for i, in := range st.Interactions {
			out[i] = selection{
				kind:  app.DeleteInteraction,
				id:    in.ID,
				label: fmt.Sprintf("%s with %s", in.Type.Label(), app.FriendName(st.Friends, in.FriendID)),
			}
		}
		return out
	}
	out := make([]selection, len(friends))
	for i, f := range friends {
		out[i] = selection{kind: app.DeleteFriend, id: f.ID, label: app.FriendName(friends, f.ID)}
	}
	return out
}

func (m Model) selected(st app.State) (selection, bool) {
	items := selectable(st)
	if m.cursor < 0 || m.cursor >= len(items) {
		return selection{}, false
	}
	return items[m.cursor], true
}

func (m Model) renderListView(st app.State) string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("FRIENDLOG"))
	s.WriteString("\n")

	// Tabs
	s.WriteString(m.renderTabs(st.Page))
	s.WriteString("\n\n")

	// Page header
	s.WriteString(lipgloss.NewStyle().Bold(true).Render(st.Chrome.Title))
	if st.Chrome.Action != nil {
		s.WriteString("  ")
		s.WriteString(tabActiveStyle.Render(fmt.Sprintf("%s (%s)", st.Chrome.Action.Label, actionKey(st.Chrome.Action.Command))))
	}
	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render(st.Chrome.Subtitle))
	s.WriteString("\n\n")

	// Body
	if st.View == "" {
		s.WriteString(subtitleStyle.Render("Loading…"))
	} else {
		s.WriteString(st.View)
	}
	s.WriteString("\n")

	if sel, ok := m.selected(st); ok {
		s.WriteString("\n")
		s.WriteString(subtitleStyle.Render(fmt.Sprintf("Selected: %s (%d/%d)", sel.label, m.cursor+1, len(selectable(st)))))
	}
	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	s.WriteString(m.renderToasts())
	s.WriteString("\n")

	// Help
	s.WriteString(m.renderListHelp(st))

	return s.String()
}

func (m Model) renderTabs(active app.Page) string {
	var rendered []string
	for i, page := range app.Pages {
		tab := fmt.Sprintf("%d %s", i+1, app.ChromeFor(page).Title)
		if page == active {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func actionKey(cmd app.Command) string {
	switch cmd.(type) {
	case app.OpenLogModal:
		return "l"
	case app.OpenFriendModal:
		return "a"
	}
	return "?"
}

var toastStyles = map[notify.Level]lipgloss.Style{
	notify.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	notify.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	notify.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	notify.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
}

func (m Model) renderToasts() string {
	if m.toasts == nil {
		return ""
	}
	var s strings.Builder
	for _, t := range m.toasts.Toasts() {
		line := "● " + t.Message
		if t.ActionLabel != "" {
			line += fmt.Sprintf(" [%s: enter]", t.ActionLabel)
		}
		s.WriteString("\n")
		s.WriteString(toastStyles[t.Level].Render(line))
	}
	return s.String()
}

func (m Model) renderListHelp(st app.State) string {
	help := []string{
		"1-4/Tab: Pages",
		"↑/↓: Select",
		"l: Log",
		"a: Add",
	}
	if len(selectable(st)) > 0 {
		if st.Page != app.PageInteractions {
			help = append(help, "e: Edit")
		}
		help = append(help, "d: Delete")
	}
	help = append(help, "r: Refresh")
	if m.toasts != nil && len(m.toasts.Toasts()) > 0 {
		help = append(help, "x: Dismiss toast")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

// newestToast returns the most recent toast, if any.
func (m Model) newestToast() (notify.Toast, bool) {
	if m.toasts == nil {
		return notify.Toast{}, false
	}
	toasts := m.toasts.Toasts()
	if len(toasts) == 0 {
		return notify.Toast{}, false
	}
	return toasts[len(toasts)-1], true
}

func (m Model) handleListKeys(msg tea.KeyMsg, st app.State) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit
	case "1", "2", "3", "4":
		m.cursor = 0
		return m, m.dispatch(app.Navigate{Page: app.Pages[key[0]-'1']})
	case "tab":
		m.cursor = 0
		return m, m.dispatch(app.Navigate{Page: st.Page.Next()})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(selectable(st))-1 {
			m.cursor++
		}
	case "l":
		return m, m.dispatch(app.OpenLogModal{})
	case "a":
		return m, m.dispatch(app.OpenFriendModal{})
	case "e":
		if sel, ok := m.selected(st); ok && sel.kind == app.DeleteFriend {
			return m, m.dispatch(app.OpenFriendModal{ID: app.IntPtr(sel.id)})
		}
	case "d":
		if sel, ok := m.selected(st); ok {
			return m, m.dispatch(app.RequestDelete{Kind: sel.kind, ID: sel.id})
		}
	case "r":
		return m, m.dispatch(app.Refresh{})
	case "esc":
		return m, m.dispatch(app.KeyEscape{})
	case "x":
		if t, ok := m.newestToast(); ok {
			stack, id := m.toasts, t.ID
			return m, func() tea.Msg {
				stack.Dismiss(id)
				return toastsChangedMsg{}
			}
		}
	case "enter":
		if t, ok := m.newestToast(); ok && t.ActionLabel != "" {
			// Toast actions dispatch on their own.
			stack, id := m.toasts, t.ID
			return m, func() tea.Msg {
				stack.Trigger(id)
				return toastsChangedMsg{}
			}
		}
	}

	return m, nil
}
