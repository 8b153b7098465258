// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Translates key presses into controller commands and draws controller state
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/notify"
)

// tickInterval is how often the screen redraws so expired toasts disappear.
const tickInterval = 250 * time.Millisecond

// dispatchedMsg reports that a controller command finished.
type dispatchedMsg struct {
	err error
}

// toastsChangedMsg is sent by the toast stack's change hook.
type toastsChangedMsg struct{}

type tickMsg time.Time

// Model is the main bubbletea model. All screen state lives in the
// controller; the model only keeps what belongs to the terminal (cursor,
// text inputs, window size).
type Model struct {
	ctx    context.Context
	ctrl   *app.Controller
	toasts *notify.Stack
	log    *zap.Logger

	// List view state
	cursor int

	// Friend modal state
	formInputs []textinput.Model
	focusIndex int
	formOpen   bool

	// Log modal state
	notes        textinput.Model
	notesFocused bool
	logOpen      bool

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates a new TUI model over ctrl.
func NewModel(ctx context.Context, ctrl *app.Controller, toasts *notify.Stack, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		toasts: toasts,
		log:    logger.Named("tui"),
		width:  80,
		height: 24,
	}
}

// Run starts the full-screen interface and blocks until the user quits.
func Run(ctx context.Context, ctrl *app.Controller, toasts *notify.Stack, logger *zap.Logger) error {
	p := tea.NewProgram(NewModel(ctx, ctrl, toasts, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	defer watchToasts(p, toasts)()
	_, err := p.Run()
	return err
}

// watchToasts redraws p whenever the stack changes. Send blocks until the
// event loop receives, so Update must only touch the stack from a tea.Cmd.
func watchToasts(p *tea.Program, toasts *notify.Stack) (stop func()) {
	if toasts == nil {
		return func() {}
	}
	toasts.SetOnChange(func() { p.Send(toastsChangedMsg{}) })
	return func() { toasts.SetOnChange(nil) }
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.dispatch(app.Navigate{Page: app.PageDashboard}), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dispatch runs cmd off the event loop. The controller serialises commands
// and publishes the result through State, so the message only carries the
// error.
func (m Model) dispatch(cmd app.Command) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return dispatchedMsg{err: ctrl.Dispatch(ctx, cmd)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case dispatchedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.log.Warn("command rejected", zap.Error(msg.err))
		}
		m.syncOverlays(m.ctrl.State())
		return m, nil
	case tickMsg:
		return m, tick()
	case toastsChangedMsg:
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	st := m.ctrl.State()
	switch {
	case st.Pending != nil:
		return m.renderConfirmDeleteView(*st.Pending)
	case st.Log.Open:
		return m.renderLogView(st)
	case st.Friend.Open:
		return m.renderEditView(st)
	}
	return m.renderListView(st)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Delegate to the overlay that owns the keyboard
	st := m.ctrl.State()
	switch {
	case st.Pending != nil:
		return m.handleConfirmDeleteKeys(msg)
	case st.Log.Open:
		return m.handleLogKeys(msg, st)
	case st.Friend.Open:
		return m.handleEditKeys(msg)
	}
	return m.handleListKeys(msg, st)
}

// syncOverlays prepares or drops the terminal-side inputs when the
// controller opens or closes a modal.
func (m *Model) syncOverlays(st app.State) {
	switch {
	case st.Friend.Open && !m.formOpen:
		m.initFormInputs(st.Friend)
		m.formOpen = true
	case !st.Friend.Open:
		m.formOpen = false
		m.formInputs = nil
	}

	switch {
	case st.Log.Open && !m.logOpen:
		m.initNotesInput()
		m.logOpen = true
	case !st.Log.Open:
		m.logOpen = false
		m.notesFocused = false
	}

	if n := len(selectable(st)); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
