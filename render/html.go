// ABOUTME: HTML renderer with embedded templates
// ABOUTME: Produces page fragments for the controller and the full shell for the browser UI
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

//go:embed templates
var templatesFS embed.FS

var _ app.Renderer = (*HTML)(nil)

// HTML renders views with html/template. Templates are parsed once.
type HTML struct {
	templates *template.Template
}

// shell is what the layout and app fragment templates see.
type shell struct {
	State       app.State
	View        template.HTML
	Pages       []app.Page
	Toasts      []notify.Toast
	Types       []models.InteractionType
	Preferences []string
}

// NewHTML parses the embedded templates.
func NewHTML() (*HTML, error) {
	funcMap := template.FuncMap{
		"statCards":     StatCards,
		"lastContact":   LastContactPhrase,
		"avatar":        AvatarURL,
		"displayName":   DisplayName,
		"orPlaceholder": OrPlaceholder,
		"preference":    PreferenceOrDefault,
		"percent":       ClampPercent,
		"formatTime":    FormatTime,
		"pageLabel":     pageLabel,
		"actionURL":     actionURL,
		"toastBorder":   toastBorder,
		// trusted marks fragments this package rendered itself.
		"trusted": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec // output of our own templates
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &HTML{templates: tmpl}, nil
}

func (h *HTML) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// Dashboard renders stat cards, the friend list and the chart slot.
func (h *HTML) Dashboard(data app.DashboardData) (string, error) {
	return h.execute("dashboard", data)
}

// Friends renders one detail card per friend.
func (h *HTML) Friends(friends []models.Friend) (string, error) {
	return h.execute("friends", friends)
}

// Interactions renders the interaction log.
func (h *HTML) Interactions(rows []app.InteractionRow) (string, error) {
	return h.execute("interactions", rows)
}

// Settings renders the static settings page.
func (h *HTML) Settings() (string, error) {
	return h.execute("settings", nil)
}

// WeeklyChart renders an inline SVG bar chart.
func (h *HTML) WeeklyChart(activity models.WeeklyActivity) (string, error) {
	chart, err := LayoutChart(activity)
	if err != nil {
		return "", err
	}
	return h.execute("chart", chart)
}

func (h *HTML) shell(st app.State, toasts []notify.Toast) shell {
	return shell{
		State:       st,
		View:        template.HTML(st.View), //nolint:gosec // rendered by this package
		Pages:       app.Pages,
		Toasts:      toasts,
		Types:       models.InteractionTypes,
		Preferences: models.Preferences,
	}
}

// Page writes the complete HTML document.
func (h *HTML) Page(w io.Writer, st app.State, toasts []notify.Toast) error {
	return h.templates.ExecuteTemplate(w, "layout", h.shell(st, toasts))
}

// Fragment writes the #app element: navigation, header, view and overlays.
func (h *HTML) Fragment(w io.Writer, st app.State, toasts []notify.Toast) error {
	return h.templates.ExecuteTemplate(w, "app", h.shell(st, toasts))
}

// Toasts writes only the toast stack.
func (h *HTML) Toasts(w io.Writer, toasts []notify.Toast) error {
	return h.templates.ExecuteTemplate(w, "toasts", shell{Toasts: toasts})
}

func pageLabel(p app.Page) string {
	switch p {
	case app.PageDashboard:
		return "Dashboard"
	case app.PageFriends:
		return "Friends"
	case app.PageInteractions:
		return "Interactions"
	case app.PageSettings:
		return "Settings"
	}
	return string(p)
}

func actionURL(cmd app.Command) string {
	switch cmd.(type) {
	case app.OpenLogModal:
		return "/modals/log/open"
	case app.OpenFriendModal:
		return "/modals/friend/open"
	}
	return ""
}

func toastBorder(level notify.Level) string {
	switch level {
	case notify.LevelSuccess:
		return "border-teal-500"
	case notify.LevelError:
		return "border-rose-500"
	case notify.LevelWarning:
		return "border-amber-500"
	}
	return "border-sky-500"
}
