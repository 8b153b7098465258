// ABOUTME: Application controller: the single transition function for UI commands
// ABOUTME: Owns page routing, modal lifecycle, the friends cache and navigation cancellation
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

// Gateway is the backend the controller reads from and writes to.
type Gateway interface {
	ListFriends(ctx context.Context) ([]models.Friend, error)
	CreateFriend(ctx context.Context, in models.FriendInput) (*models.Friend, error)
	UpdateFriend(ctx context.Context, id int, in models.FriendInput) (*models.Friend, error)
	DeleteFriend(ctx context.Context, id int) error
	ListInteractions(ctx context.Context) ([]models.Interaction, error)
	CreateInteraction(ctx context.Context, in models.InteractionInput) (*models.Interaction, error)
	DeleteInteraction(ctx context.Context, id int) error
	OverviewStats(ctx context.Context) (*models.OverviewStats, error)
	WeeklyActivity(ctx context.Context) (*models.WeeklyActivity, error)
}

// Renderer turns data snapshots into view fragments.
type Renderer interface {
	Dashboard(data DashboardData) (string, error)
	Friends(friends []models.Friend) (string, error)
	Interactions(rows []InteractionRow) (string, error)
	Settings() (string, error)
	WeeklyChart(activity models.WeeklyActivity) (string, error)
}

// Notifier shows toasts.
type Notifier interface {
	Notify(n notify.Notification)
}

// ErrUnknownFriend is returned when a selection names a friend that isn't offered.
var ErrUnknownFriend = errors.New("unknown friend")

// Options configures a Controller.
type Options struct {
	Gateway  Gateway
	Renderer Renderer
	Notifier Notifier
	Logger   *zap.Logger
	// BaseContext is used for dispatches started by toast actions.
	BaseContext context.Context
	// Now stamps new interactions; defaults to time.Now.
	Now func() time.Time
}

// Controller is the Application Controller. Dispatch is serialised; State
// may be called from any goroutine.
type Controller struct {
	gw       Gateway
	render   Renderer
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	base     context.Context

	// mu serialises Dispatch.
	mu sync.Mutex
	// seenGen is the navigation generation current when the running
	// dispatch took mu. Guarded by mu.
	seenGen uint64

	stateMu sync.RWMutex
	st      State

	navMu     sync.Mutex
	navCancel context.CancelFunc
	navGen    uint64
}

type navigation struct {
	ctx context.Context
	gen uint64
}

type nopNotifier struct{}

func (nopNotifier) Notify(notify.Notification) {}

// New creates a controller on the dashboard page with an empty cache.
// Call Start to load it.
func New(opts Options) (*Controller, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway is required")
	}
	if opts.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}

	c := &Controller{
		gw:       opts.Gateway,
		render:   opts.Renderer,
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      opts.Now,
		base:     opts.BaseContext,
	}
	if c.base == nil {
		c.base = context.Background()
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("controller")
	if c.now == nil {
		c.now = time.Now
	}
	c.st.Page = PageDashboard
	c.st.Chrome = ChromeFor(PageDashboard)
	return c, nil
}

// Start loads the dashboard.
func (c *Controller) Start(ctx context.Context) error {
	return c.Dispatch(ctx, Navigate{Page: PageDashboard})
}

// Close cancels any in-flight navigation.
func (c *Controller) Close() {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	if c.navCancel != nil {
		c.navCancel()
		c.navCancel = nil
	}
}

// State returns a snapshot of the current UI state.
func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.st.clone()
}

// Dispatch applies one command. Backend and renderer failures are reported
// through toasts and logs, not returned; the error is reserved for commands
// the controller can't interpret.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	var (
		nav    navigation
		target Page
	)
	switch cmd := cmd.(type) {
	case Navigate:
		page, err := ParsePage(string(cmd.Page))
		if err != nil {
			return err
		}
		target = page
		nav = c.beginNavigation(ctx)
	case Refresh:
		nav = c.beginNavigation(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.seenGen = c.generation()

	c.log.Debug("dispatch", zap.String("command", fmt.Sprintf("%T", cmd)))

	switch cmd := cmd.(type) {
	case Navigate:
		c.update(func(s *State) {
			closeOverlays(s)
		})
		return c.enter(nav, target)
	case Refresh:
		c.update(func(s *State) {
			s.CacheValid = false
		})
		return c.enter(nav, c.st.Page)
	case OpenLogModal:
		c.openLogModal()
		return nil
	case OpenFriendModal:
		c.openFriendModal(cmd.ID)
		return nil
	case SelectInteractionType:
		return c.selectInteractionType(cmd.Type)
	case SelectFriend:
		return c.selectFriend(cmd.ID)
	case SubmitInteraction:
		return c.submitInteraction(ctx, cmd)
	case SubmitFriend:
		return c.submitFriend(ctx, cmd.Form)
	case Dismiss:
		c.dismiss(cmd.Modal, cmd.Reason)
		return nil
	case KeyEscape:
		c.escape()
		return nil
	case RequestDelete:
		return c.requestDelete(cmd.Kind, cmd.ID)
	case ConfirmDelete:
		return c.confirmDelete(ctx)
	case CancelDelete:
		c.update(func(s *State) {
			s.Pending = nil
		})
		return nil
	case nil:
		return fmt.Errorf("nil command")
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// update mutates state under the snapshot lock. Only Dispatch writes state,
// so reads inside Dispatch don't need the lock.
func (c *Controller) update(fn func(s *State)) {
	c.stateMu.Lock()
	fn(&c.st)
	c.stateMu.Unlock()
}

func (c *Controller) generation() uint64 {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	return c.navGen
}

// beginNavigation cancels the previous navigation and starts a new one.
func (c *Controller) beginNavigation(parent context.Context) navigation {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	return c.startLocked(parent)
}

func (c *Controller) startLocked(parent context.Context) navigation {
	if c.navCancel != nil {
		c.navCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.navGen++
	c.navCancel = cancel
	return navigation{ctx: ctx, gen: c.navGen}
}

// followUp starts the navigation that re-renders after a mutation. It
// reports false when a newer navigation is already queued behind this
// dispatch; that one will render instead.
func (c *Controller) followUp(parent context.Context) (navigation, bool) {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	if c.navGen != c.seenGen {
		return navigation{}, false
	}
	nav := c.startLocked(parent)
	c.seenGen = nav.gen
	return nav, true
}

// current reports whether nav is still the latest navigation.
func (c *Controller) current(nav navigation) bool {
	c.navMu.Lock()
	defer c.navMu.Unlock()
	return nav.gen == c.navGen && nav.ctx.Err() == nil
}

// safeRender runs a renderer call, recovering panics. Failures yield "".
func (c *Controller) safeRender(view string, fn func() (string, error)) (out string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("renderer panicked", zap.String("view", view), zap.Any("panic", r))
			out = ""
		}
	}()
	out, err := fn()
	if err != nil {
		c.log.Error("renderer failed", zap.String("view", view), zap.Error(err))
		return ""
	}
	return out
}

func (c *Controller) toast(level notify.Level, msg string) {
	c.notifier.Notify(notify.Notification{Message: msg, Level: level})
}

func closeOverlays(s *State) {
	s.Log = LogModalState{}
	s.Friend = FriendModalState{}
	s.Pending = nil
}
