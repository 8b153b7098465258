// ABOUTME: Terminal renderer for controller views
// ABOUTME: Draws stat cards, friend and interaction tables, and block-character bar charts
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/render"
)

const (
	// chartBarWidth is the length of a full bar in the weekly chart.
	chartBarWidth = 20
	// connectionBarWidth is the length of a full connection bar.
	connectionBarWidth = 10
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(22)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)
)

// Renderer draws controller views for a terminal.
type Renderer struct{}

var _ app.Renderer = Renderer{}

// NewRenderer returns a terminal renderer.
func NewRenderer() Renderer {
	return Renderer{}
}

func (Renderer) Dashboard(data app.DashboardData) (string, error) {
	var out strings.Builder

	var cards []string
	for _, c := range render.StatCards(data.Stats) {
		cards = append(cards, cardStyle.Render(fmt.Sprintf("%s %s\n%s\n%s",
			c.Icon, c.Label, cardValueStyle.Render(c.Value), subtitleStyle.Render(c.Subtext))))
	}
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	out.WriteString("\n\n")

	out.WriteString(sectionStyle.Render("YOUR FRIENDS"))
	out.WriteString("\n")
	if len(data.Friends) == 0 {
		out.WriteString(subtitleStyle.Render("  No friends yet. Press a to add one."))
		out.WriteString("\n")
	}
	for _, f := range data.Friends {
		out.WriteString(fmt.Sprintf("  %-20s %-12s %s %3d%%  %d interactions\n",
			truncate(render.DisplayName(f), 20),
			render.LastContactPhrase(f.LastContactDays),
			blocks(render.ClampPercent(f.Connection), 100, connectionBarWidth),
			render.ClampPercent(f.Connection),
			f.Interactions))
	}
	out.WriteString("\n")

	out.WriteString(sectionStyle.Render("WEEKLY ACTIVITY"))
	out.WriteString("\n")
	if data.Chart == "" {
		out.WriteString(subtitleStyle.Render("  Chart unavailable"))
		out.WriteString("\n")
	} else {
		out.WriteString(data.Chart)
	}

	return out.String(), nil
}

func (Renderer) Friends(friends []models.Friend) (string, error) {
	if len(friends) == 0 {
		return subtitleStyle.Render("No friends yet. Press a to add one."), nil
	}

	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Email", Width: 26},
		{Title: "Phone", Width: 14},
		{Title: "Preference", Width: 12},
		{Title: "Interactions", Width: 12},
		{Title: "Last contact", Width: 14},
	}

	var rows []table.Row
	for _, f := range friends {
		rows = append(rows, table.Row{
			render.DisplayName(f),
			render.OrPlaceholder(f.Email),
			render.OrPlaceholder(f.Phone),
			render.PreferenceOrDefault(f.Preference),
			strconv.Itoa(f.Interactions),
			render.LastContactPhrase(f.LastContactDays),
		})
	}

	return newTable(columns, rows).View(), nil
}

func (Renderer) Interactions(rows []app.InteractionRow) (string, error) {
	if len(rows) == 0 {
		return subtitleStyle.Render("No interactions logged yet. Press l to log one."), nil
	}

	columns := []table.Column{
		{Title: "When", Width: 20},
		{Title: "Friend", Width: 22},
		{Title: "Type", Width: 8},
		{Title: "Notes", Width: 34},
	}

	var tableRows []table.Row
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			render.FormatTime(r.OccurredAt),
			r.FriendName,
			r.Type.Label(),
			r.Notes,
		})
	}

	return newTable(columns, tableRows).View(), nil
}

func (Renderer) Settings() (string, error) {
	var out strings.Builder
	out.WriteString(sectionStyle.Render("ABOUT"))
	out.WriteString("\n")
	out.WriteString("  Friendlog keeps your friends and interactions on the backend server.\n")
	out.WriteString("  Configuration lives in the friendlog config file and FRIENDLOG_* variables.\n\n")
	out.WriteString(sectionStyle.Render("KEYS"))
	out.WriteString("\n")
	out.WriteString("  1-4 switch pages, l logs an interaction, a adds a friend, r refreshes.\n")
	return out.String(), nil
}

// WeeklyChart draws one horizontal bar per day scaled to the busiest day.
func (Renderer) WeeklyChart(activity models.WeeklyActivity) (string, error) {
	if err := activity.Validate(); err != nil {
		return "", fmt.Errorf("invalid weekly activity: %w", err)
	}
	if len(activity.Data) == 0 {
		return subtitleStyle.Render("  No activity yet") + "\n", nil
	}

	peak := activity.Max()
	var out strings.Builder
	for i, v := range activity.Data {
		out.WriteString(fmt.Sprintf("  %-4s %s  %2d\n", activity.Labels[i], blocks(v, peak, chartBarWidth), v))
	}
	return out.String(), nil
}

// blocks draws value/peak as a bar of width cells.
func blocks(value, peak, width int) string {
	if peak <= 0 {
		peak = 1
	}
	n := min(max(value*width/peak, 0), width)
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func newTable(columns []table.Column, rows []table.Row) table.Model {
	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
	)
}
