// ABOUTME: Tests for the HTML renderer and its shared helpers
// ABOUTME: Checks stat values, neutral defaults, escaping, overlays and the SVG chart
package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

func newTestHTML(t *testing.T) *HTML {
	t.Helper()
	h, err := NewHTML()
	require.NoError(t, err)
	return h
}

func TestDashboardShowsStatCardValues(t *testing.T) {
	h := newTestHTML(t)

	out, err := h.Dashboard(app.DashboardData{
		Stats:   models.OverviewStats{TotalFriends: 1, InteractionsThisWeek: 2, AvgConnection: 50, NeedAttention: 0},
		Friends: []models.Friend{{ID: 1, Name: "A", LastContactDays: 3, Connection: 70, Interactions: 4}},
	})
	require.NoError(t, err)

	for _, v := range []string{">1</p>", ">2</p>", ">50%</p>", ">0</p>"} {
		assert.Contains(t, out, v)
	}
	assert.Contains(t, out, "Avg Connection")
	assert.Contains(t, out, "Last contact 3 days ago")
	assert.Contains(t, out, "4 interactions")
	assert.Contains(t, out, "The chart isn't available right now.")
}

func TestDashboardEmbedsChart(t *testing.T) {
	h := newTestHTML(t)
	chart, err := h.WeeklyChart(models.WeeklyActivity{Labels: []string{"Mon", "Tue"}, Data: []int{2, 4}})
	require.NoError(t, err)

	out, err := h.Dashboard(app.DashboardData{Chart: chart})
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 2, strings.Count(out, "<rect"))
	assert.Contains(t, out, "No friends yet")
}

func TestWeeklyChartRejectsMismatchedArrays(t *testing.T) {
	h := newTestHTML(t)
	_, err := h.WeeklyChart(models.WeeklyActivity{Labels: []string{"Mon"}, Data: []int{1, 2}})
	assert.Error(t, err)

	out, err := h.WeeklyChart(models.WeeklyActivity{})
	require.NoError(t, err)
	assert.NotContains(t, out, "<rect")
}

func TestLayoutChartScalesToTallestBar(t *testing.T) {
	c, err := LayoutChart(models.WeeklyActivity{Labels: []string{"Mon", "Tue", "Wed"}, Data: []int{0, 5, 10}})
	require.NoError(t, err)
	require.Len(t, c.Bars, 3)

	assert.Zero(t, c.Bars[0].Height)
	assert.Equal(t, c.Base-chartPadding, c.Bars[2].Height)
	assert.Equal(t, c.Bars[2].Height/2, c.Bars[1].Height)
	assert.Less(t, c.Bars[0].X, c.Bars[1].X)
	assert.Equal(t, c.Base, c.Bars[1].Y+c.Bars[1].Height)
}

func TestFriendsSubstitutesDefaultsForMissingFields(t *testing.T) {
	h := newTestHTML(t)

	out, err := h.Friends([]models.Friend{{ID: 3, Name: "Sam Jones", LastContactDays: models.NeverContactedDays}})
	require.NoError(t, err)

	assert.Contains(t, out, "https://placehold.co/48x48/60A5FA/0B1A2B?text=SJ")
	assert.Equal(t, 2, strings.Count(out, Placeholder), "email and phone")
	assert.Contains(t, out, "Prefers Text/Chat")
	assert.Contains(t, out, "Last contact: never")
	assert.Contains(t, out, `/modals/friend/open?id=3`)
	assert.Contains(t, out, `/friends/3/delete`)
	assert.NotContains(t, out, "bg-stone-50 p-3", "empty bio is omitted")
}

func TestFriendsEscapesUserContent(t *testing.T) {
	h := newTestHTML(t)
	out, err := h.Friends([]models.Friend{{ID: 1, Name: "<script>alert(1)</script>", Bio: "<b>hi</b>"}})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>hi</b>")
	assert.Contains(t, out, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestInteractionsRows(t *testing.T) {
	h := newTestHTML(t)
	ts, err := models.ParseTimestamp("2025-01-02T15:04:00")
	require.NoError(t, err)

	out, err := h.Interactions([]app.InteractionRow{
		{Interaction: models.Interaction{ID: 42, FriendID: 9, Type: models.InteractionCall, OccurredAt: ts, Notes: "long chat"}, FriendName: "Friend #9"},
		{Interaction: models.Interaction{ID: 43, FriendID: 1, Type: models.InteractionMeetup}, FriendName: "A"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Friend #9")
	assert.Contains(t, out, "Call")
	assert.Contains(t, out, "Jan 2, 2025 3:04 PM")
	assert.Contains(t, out, "long chat")
	assert.Contains(t, out, `id="interaction-42"`)
	assert.Contains(t, out, "/interactions/43/delete")

	empty, err := h.Interactions(nil)
	require.NoError(t, err)
	assert.Contains(t, empty, "No interactions logged yet.")
}

func TestSettingsIsStatic(t *testing.T) {
	h := newTestHTML(t)
	out, err := h.Settings()
	require.NoError(t, err)
	assert.Contains(t, out, "Application Settings")
}

func TestFragmentRendersChromeAndOverlays(t *testing.T) {
	h := newTestHTML(t)
	st := app.State{
		Page:   app.PageDashboard,
		Chrome: app.ChromeFor(app.PageDashboard),
		View:   "<p>body</p>",
		Log: app.LogModalState{
			Open:           true,
			Options:        []app.FriendOption{{ID: 7, Name: "Gus"}},
			SelectedFriend: 7,
			SelectedType:   models.InteractionCall,
			Focus:          app.FocusFriend,
		},
	}
	toasts := []notify.Toast{{ID: "01TOAST", Message: "Saved", Level: notify.LevelSuccess, ActionLabel: "Undo"}}

	var buf bytes.Buffer
	require.NoError(t, h.Fragment(&buf, st, toasts))
	out := buf.String()

	assert.Contains(t, out, `<div id="app"`)
	assert.Contains(t, out, "Your Friendship Dashboard")
	assert.Contains(t, out, `hx-post="/modals/log/open">Log Interaction</button>`)
	assert.Contains(t, out, "<p>body</p>")
	assert.Contains(t, out, `<option value="7" selected>Gus</option>`)
	assert.Contains(t, out, `bg-teal-600 text-white selected`)
	assert.Contains(t, out, `name="type" value="call"`)
	assert.Contains(t, out, "/toasts/01TOAST/action")
	assert.Contains(t, out, "/toasts/01TOAST/pause")
	assert.NotContains(t, out, "friend-modal")
	assert.NotContains(t, out, "confirm-dialog")
}

func TestFragmentFriendModalAndConfirm(t *testing.T) {
	h := newTestHTML(t)
	st := app.State{
		Page:   app.PageFriends,
		Chrome: app.ChromeFor(app.PageFriends),
		Friend: app.FriendModalState{
			Open:      true,
			EditingID: app.IntPtr(5),
			Form:      models.FriendInput{Name: "Jo", Preference: models.PreferenceEmail},
			Error:     "Please enter a valid email address.",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, h.Fragment(&buf, st, nil))
	out := buf.String()
	assert.Contains(t, out, "Edit Friend")
	assert.Contains(t, out, `name="id" value="5"`)
	assert.Contains(t, out, `value="Jo"`)
	assert.Contains(t, out, `<option value="Email" selected>Email</option>`)
	assert.Contains(t, out, "Please enter a valid email address.")
	assert.Contains(t, out, `hx-post="/modals/friend/open">Add Friend</button>`)

	st.Friend = app.FriendModalState{}
	st.Pending = &app.PendingDelete{Kind: app.DeleteFriend, ID: 5, Label: "Jo"}
	buf.Reset()
	require.NoError(t, h.Fragment(&buf, st, nil))
	assert.Contains(t, buf.String(), "Delete Jo?")
	assert.Contains(t, buf.String(), `hx-post="/confirm"`)
}

func TestPageWrapsFragment(t *testing.T) {
	h := newTestHTML(t)
	st := app.State{Page: app.PageSettings, Chrome: app.ChromeFor(app.PageSettings)}

	var buf bytes.Buffer
	require.NoError(t, h.Page(&buf, st, nil))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), "<title>Settings · friendlog</title>")
	assert.Contains(t, buf.String(), "htmx.org")
}

func TestStatCards(t *testing.T) {
	cards := StatCards(models.OverviewStats{TotalFriends: 1, InteractionsThisWeek: 2, AvgConnection: 50})
	require.Len(t, cards, 4)
	var values []string
	for _, c := range cards {
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"1", "2", "50%", "0"}, values)
	assert.Equal(t, "Need Attention", cards[3].Label)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "today", LastContactPhrase(0))
	assert.Equal(t, "yesterday", LastContactPhrase(1))
	assert.Equal(t, "12 days ago", LastContactPhrase(12))
	assert.Equal(t, "never", LastContactPhrase(999))

	assert.Equal(t, "SJ", Initials("sam  jones smith"))
	assert.Equal(t, "?", Initials("  "))
	assert.Equal(t, "https://img.example/a.png", AvatarURL(models.Friend{Avatar: " https://img.example/a.png "}))

	assert.Equal(t, Placeholder, OrPlaceholder(" "))
	assert.Equal(t, "x", OrPlaceholder("x"))
	assert.Equal(t, models.PreferenceVideo, PreferenceOrDefault(models.PreferenceVideo))
	assert.Equal(t, "Friend #4", DisplayName(models.Friend{ID: 4}))
	assert.Equal(t, 100, ClampPercent(140))
	assert.Equal(t, 0, ClampPercent(-3))
	assert.Equal(t, Placeholder, FormatTime(models.Timestamp{}))
}
