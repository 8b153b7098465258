// ABOUTME: Transient toast notifications with timed auto-dismiss
// ABOUTME: Stacked newest-last; hover pauses the timer, leaving restarts it
package notify

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level is the severity class of a notification.
type Level string

// Level constants.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Normalize maps unknown levels to info.
func (l Level) Normalize() Level {
	switch l {
	case LevelSuccess, LevelError, LevelWarning, LevelInfo:
		return l
	}
	return LevelInfo
}

const (
	// DefaultDuration is how long a toast stays up without interaction.
	DefaultDuration = 2800 * time.Millisecond

	// DefaultMaxToasts bounds the stack; the oldest toast is evicted first.
	DefaultMaxToasts = 5
)

// Action is an optional button on a toast.
type Action struct {
	Label string
	Run   func()
}

// Notification is a request to show a toast.
type Notification struct {
	Message string
	Level   Level
	Action  *Action
	// Duration overrides the stack default when positive.
	Duration time.Duration
}

// Toast is a read-only view of one visible notification.
type Toast struct {
	ID          string
	Message     string
	Level       Level
	ActionLabel string
	Paused      bool
	CreatedAt   time.Time
}

type entry struct {
	Toast
	action   func()
	duration time.Duration
	timer    *time.Timer
	gen      uint64
}

// Stack holds the visible toasts. It is safe for concurrent use.
type Stack struct {
	mu       sync.Mutex
	toasts   []*entry
	duration time.Duration
	max      int
	entropy  *ulid.MonotonicEntropy
	onChange func()
	now      func() time.Time
	closed   bool
}

// Option configures a Stack.
type Option func(*Stack)

// WithDuration sets the default auto-dismiss delay.
func WithDuration(d time.Duration) Option {
	return func(s *Stack) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithMaxToasts bounds how many toasts are kept.
func WithMaxToasts(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithOnChange registers a hook run after every change, outside the lock.
func WithOnChange(fn func()) Option {
	return func(s *Stack) {
		s.onChange = fn
	}
}

// NewStack creates an empty stack.
func NewStack(opts ...Option) *Stack {
	s := &Stack{
		duration: DefaultDuration,
		max:      DefaultMaxToasts,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetOnChange replaces the change hook. Adapters that are built after the
// stack use this to hook their redraw in.
func (s *Stack) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Notify shows n. It satisfies the controller's notifier dependency.
func (s *Stack) Notify(n Notification) {
	s.Push(n)
}

// Push shows n and returns the toast id, or "" after Close.
func (s *Stack) Push(n Notification) string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}

	now := s.now()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
	e := &entry{
		Toast: Toast{
			ID:        id,
			Message:   n.Message,
			Level:     n.Level.Normalize(),
			CreatedAt: now,
		},
		duration: s.duration,
	}
	if n.Duration > 0 {
		e.duration = n.Duration
	}
	if n.Action != nil {
		e.ActionLabel = n.Action.Label
		e.action = n.Action.Run
	}

	s.toasts = append(s.toasts, e)
	for len(s.toasts) > s.max {
		s.toasts[0].stop()
		s.toasts = s.toasts[1:]
	}
	s.schedule(e)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return id
}

// schedule arms e's timer. Callers hold s.mu.
func (s *Stack) schedule(e *entry) {
	e.gen++
	gen := e.gen
	id := e.ID
	e.timer = time.AfterFunc(e.duration, func() {
		s.expire(id, gen)
	})
}

func (e *entry) stop() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.gen++
}

func (s *Stack) expire(id string, gen uint64) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 || s.toasts[i].gen != gen || s.toasts[i].Paused {
		s.mu.Unlock()
		return
	}
	s.remove(i)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (s *Stack) index(id string) int {
	for i, e := range s.toasts {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Stack) remove(i int) {
	s.toasts[i].stop()
	s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
}

// Dismiss closes a toast early. It reports whether the toast was visible.
func (s *Stack) Dismiss(id string) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.remove(i)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return true
}

// Pause stops the auto-dismiss timer (pointer entered the toast).
func (s *Stack) Pause(id string) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	e := s.toasts[i]
	e.stop()
	e.Paused = true
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return true
}

// Resume restarts the full auto-dismiss delay (pointer left the toast).
func (s *Stack) Resume(id string) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 || s.closed {
		s.mu.Unlock()
		return false
	}
	e := s.toasts[i]
	e.stop()
	e.Paused = false
	s.schedule(e)
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return true
}

// Trigger runs the toast's action, then dismisses it. The toast is removed
// even when the action panics.
func (s *Stack) Trigger(id string) bool {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	action := s.toasts[i].action
	s.mu.Unlock()

	defer s.Dismiss(id)
	if action != nil {
		action()
	}
	return true
}

// Toasts returns the visible toasts, oldest first.
func (s *Stack) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.toasts))
	for i, e := range s.toasts {
		out[i] = e.Toast
	}
	return out
}

// Close stops every timer and drops all toasts. Later pushes are ignored.
func (s *Stack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.toasts {
		e.stop()
	}
	s.toasts = nil
	s.closed = true
}
