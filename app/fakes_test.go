// ABOUTME: Fake gateway, renderer and notifier for controller tests
// ABOUTME: The gateway behaves like a tiny in-memory backend and records every call
package app_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/harperreed/friendlog/api"
	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

var fixedNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

var errBackendDown = errors.New("connection refused")

type gwCall struct {
	Op          string
	ID          int
	Friend      models.FriendInput
	Interaction models.InteractionInput
}

type fakeGateway struct {
	mu           sync.Mutex
	friends      []models.Friend
	interactions []models.Interaction
	stats        *models.OverviewStats
	weekly       *models.WeeklyActivity
	fail         map[string]error
	calls        []gwCall
	nextID       int

	// gate, when set, holds ListFriends until closed.
	gate       chan struct{}
	respectCtx bool
	friendsCtx context.Context
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{fail: map[string]error{}, nextID: 100}
}

func (g *fakeGateway) setFail(op string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.fail, op)
		return
	}
	g.fail[op] = err
}

func (g *fakeGateway) record(c gwCall) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
	return g.fail[c.Op]
}

func (g *fakeGateway) callsFor(op string) []gwCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gwCall
	for _, c := range g.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) count(op string) int {
	return len(g.callsFor(op))
}

func (g *fakeGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGateway) lastFriendsCtx() context.Context {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.friendsCtx
}

func notFound(method, path string) error {
	return &api.StatusError{
		StatusCode: 404,
		Status:     "404 Not Found",
		Method:     method,
		Path:       path,
		Body:       `{"error":"Friend not found"}`,
	}
}

func (g *fakeGateway) ListFriends(ctx context.Context) ([]models.Friend, error) {
	g.mu.Lock()
	gate, respect := g.gate, g.respectCtx
	g.friendsCtx = ctx
	g.mu.Unlock()

	err := g.record(gwCall{Op: "ListFriends"})
	if gate != nil {
		if respect {
			select {
			case <-gate:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		} else {
			<-gate
		}
	}
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Friend(nil), g.friends...), nil
}

func (g *fakeGateway) CreateFriend(_ context.Context, in models.FriendInput) (*models.Friend, error) {
	if err := g.record(gwCall{Op: "CreateFriend", Friend: in}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	f := models.Friend{ID: g.nextID, Name: in.Name, Email: in.Email, Phone: in.Phone, Preference: in.Preference, Bio: in.Bio}
	g.friends = append(g.friends, f)
	return &f, nil
}

func (g *fakeGateway) UpdateFriend(_ context.Context, id int, in models.FriendInput) (*models.Friend, error) {
	if err := g.record(gwCall{Op: "UpdateFriend", ID: id, Friend: in}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, f := range g.friends {
		if f.ID == id {
			f.Name, f.Email, f.Phone, f.Preference, f.Bio = in.Name, in.Email, in.Phone, in.Preference, in.Bio
			g.friends[i] = f
			return &f, nil
		}
	}
	return nil, notFound("PUT", fmt.Sprintf("/api/friends/%d", id))
}

func (g *fakeGateway) DeleteFriend(_ context.Context, id int) error {
	if err := g.record(gwCall{Op: "DeleteFriend", ID: id}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, f := range g.friends {
		if f.ID == id {
			g.friends = append(g.friends[:i], g.friends[i+1:]...)
			return nil
		}
	}
	return notFound("DELETE", fmt.Sprintf("/api/friends/%d", id))
}

func (g *fakeGateway) ListInteractions(context.Context) ([]models.Interaction, error) {
	if err := g.record(gwCall{Op: "ListInteractions"}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Interaction(nil), g.interactions...), nil
}

func (g *fakeGateway) CreateInteraction(_ context.Context, in models.InteractionInput) (*models.Interaction, error) {
	if err := g.record(gwCall{Op: "CreateInteraction", Interaction: in}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	created := models.Interaction{ID: g.nextID, FriendID: in.FriendID, Type: in.Type, OccurredAt: in.OccurredAt, Notes: in.Notes}
	g.interactions = append(g.interactions, created)
	return &created, nil
}

func (g *fakeGateway) DeleteInteraction(_ context.Context, id int) error {
	if err := g.record(gwCall{Op: "DeleteInteraction", ID: id}); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, in := range g.interactions {
		if in.ID == id {
			g.interactions = append(g.interactions[:i], g.interactions[i+1:]...)
			return nil
		}
	}
	return notFound("DELETE", fmt.Sprintf("/api/interactions/%d", id))
}

func (g *fakeGateway) OverviewStats(context.Context) (*models.OverviewStats, error) {
	if err := g.record(gwCall{Op: "OverviewStats"}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats, nil
}

func (g *fakeGateway) WeeklyActivity(context.Context) (*models.WeeklyActivity, error) {
	if err := g.record(gwCall{Op: "WeeklyActivity"}); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.weekly, nil
}

// fakeRenderer produces plain strings that tests can assert on.
type fakeRenderer struct {
	mu         sync.Mutex
	chartErr   error
	chartPanic bool
	dashboards []app.DashboardData
}

func names(friends []models.Friend) string {
	out := make([]string, len(friends))
	for i, f := range friends {
		out[i] = f.Name
	}
	return strings.Join(out, ",")
}

func (r *fakeRenderer) Dashboard(d app.DashboardData) (string, error) {
	r.mu.Lock()
	r.dashboards = append(r.dashboards, d)
	r.mu.Unlock()
	return fmt.Sprintf("dashboard stats=%d/%d/%d%%/%d friends=[%s] chart=%s",
		d.Stats.TotalFriends, d.Stats.InteractionsThisWeek, d.Stats.AvgConnection, d.Stats.NeedAttention,
		names(d.Friends), d.Chart), nil
}

func (r *fakeRenderer) Friends(friends []models.Friend) (string, error) {
	return "friends=[" + names(friends) + "]", nil
}

func (r *fakeRenderer) Interactions(rows []app.InteractionRow) (string, error) {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = fmt.Sprintf("%d:%s", row.ID, row.FriendName)
	}
	return "interactions=[" + strings.Join(out, ",") + "]", nil
}

func (r *fakeRenderer) Settings() (string, error) {
	return "settings", nil
}

func (r *fakeRenderer) WeeklyChart(w models.WeeklyActivity) (string, error) {
	if r.chartPanic {
		panic("chart exploded")
	}
	if r.chartErr != nil {
		return "", r.chartErr
	}
	if err := w.Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("bars(%d)", len(w.Data)), nil
}

func (r *fakeRenderer) lastDashboard() app.DashboardData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dashboards[len(r.dashboards)-1]
}

type fakeNotifier struct {
	mu    sync.Mutex
	items []notify.Notification
}

func (n *fakeNotifier) Notify(item notify.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, item)
}

func (n *fakeNotifier) all() []notify.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Notification(nil), n.items...)
}

func (n *fakeNotifier) levels() []notify.Level {
	var out []notify.Level
	for _, item := range n.all() {
		out = append(out, item.Level)
	}
	return out
}

func (n *fakeNotifier) last() notify.Notification {
	all := n.all()
	if len(all) == 0 {
		return notify.Notification{}
	}
	return all[len(all)-1]
}

type harness struct {
	c   *app.Controller
	gw  *fakeGateway
	r   *fakeRenderer
	n   *fakeNotifier
	ctx context.Context
}

func newHarness(t *testing.T, gw *fakeGateway) *harness {
	t.Helper()
	r := &fakeRenderer{}
	n := &fakeNotifier{}
	c, err := app.New(app.Options{
		Gateway:  gw,
		Renderer: r,
		Notifier: n,
		Logger:   zaptest.NewLogger(t),
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return &harness{c: c, gw: gw, r: r, n: n, ctx: context.Background()}
}

func (h *harness) dispatch(t *testing.T, cmd app.Command) {
	t.Helper()
	require.NoError(t, h.c.Dispatch(h.ctx, cmd))
}

func sampleGateway() *fakeGateway {
	gw := newFakeGateway()
	gw.friends = []models.Friend{
		{ID: 1, Name: "A", Interactions: 3, LastContactDays: 2, Connection: 80},
		{ID: 2, Name: "B", Email: "b@example.com"},
	}
	gw.interactions = []models.Interaction{
		{ID: 41, FriendID: 1, Type: models.InteractionMeetup},
		{ID: 42, FriendID: 2, Type: models.InteractionCall},
		{ID: 43, FriendID: 9, Type: models.InteractionText},
	}
	gw.stats = &models.OverviewStats{TotalFriends: 2, InteractionsThisWeek: 3, AvgConnection: 40, NeedAttention: 1}
	gw.weekly = &models.WeeklyActivity{Labels: []string{"Mon", "Tue"}, Data: []int{1, 2}}
	return gw
}
