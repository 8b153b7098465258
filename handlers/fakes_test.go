// ABOUTME: In-memory gateway for handler tests
// ABOUTME: Stores friends and interactions in slices and can be told to fail
package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/harperreed/friendlog/models"
)

var errBackendDown = errors.New("backend down")

type fakeGateway struct {
	mu           sync.Mutex
	friends      []models.Friend
	interactions []models.Interaction
	stats        models.OverviewStats
	weekly       models.WeeklyActivity
	nextID       int
	fail         bool

	created []models.InteractionInput
	updated []models.FriendInput
}

func newFakeGateway() *fakeGateway {
	day := func(d int) models.Timestamp {
		return models.NewTimestamp(time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC))
	}
	return &fakeGateway{
		friends: []models.Friend{
			{ID: 1, Name: "Alice Smith", Email: "alice@example.com", Phone: "555-0100", Preference: models.PreferencePhone, Bio: "Climbing buddy", LastContactDays: 3, Connection: 80, Interactions: 2},
			{ID: 2, Name: "Bob", LastContactDays: models.NeverContactedDays, Connection: 10},
			{ID: 3, Name: "Carol", Email: "carol@work.test", LastContactDays: 30, Connection: 40, Interactions: 1},
		},
		interactions: []models.Interaction{
			{ID: 10, FriendID: 1, Type: models.InteractionCall, OccurredAt: day(1), Notes: "caught up"},
			{ID: 11, FriendID: 1, Type: models.InteractionMeetup, OccurredAt: day(5), Notes: "bouldering"},
			{ID: 12, FriendID: 3, Type: models.InteractionText, OccurredAt: day(3)},
		},
		stats:  models.OverviewStats{TotalFriends: 3, InteractionsThisWeek: 2, AvgConnection: 43, NeedAttention: 2},
		weekly: models.WeeklyActivity{Labels: []string{"Mon", "Tue"}, Data: []int{1, 4}},
		nextID: 100,
	}
}

func (g *fakeGateway) ListFriends(context.Context) ([]models.Friend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	return append([]models.Friend(nil), g.friends...), nil
}

func (g *fakeGateway) CreateFriend(_ context.Context, in models.FriendInput) (*models.Friend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	g.nextID++
	f := models.Friend{ID: g.nextID, Name: in.Name, Email: in.Email, Phone: in.Phone, Preference: in.Preference, Avatar: in.Avatar, Bio: in.Bio, LastContactDays: models.NeverContactedDays}
	g.friends = append(g.friends, f)
	return &f, nil
}

func (g *fakeGateway) UpdateFriend(_ context.Context, id int, in models.FriendInput) (*models.Friend, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	g.updated = append(g.updated, in)
	for i, f := range g.friends {
		if f.ID == id {
			g.friends[i].Name, g.friends[i].Email, g.friends[i].Phone = in.Name, in.Email, in.Phone
			g.friends[i].Preference, g.friends[i].Avatar, g.friends[i].Bio = in.Preference, in.Avatar, in.Bio
			out := g.friends[i]
			return &out, nil
		}
	}
	return nil, errors.New("not found")
}

func (g *fakeGateway) DeleteFriend(_ context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errBackendDown
	}
	for i, f := range g.friends {
		if f.ID == id {
			g.friends = append(g.friends[:i], g.friends[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (g *fakeGateway) ListInteractions(context.Context) ([]models.Interaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	return append([]models.Interaction(nil), g.interactions...), nil
}

func (g *fakeGateway) CreateInteraction(_ context.Context, in models.InteractionInput) (*models.Interaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	g.created = append(g.created, in)
	g.nextID++
	out := models.Interaction{ID: g.nextID, FriendID: in.FriendID, Type: in.Type, OccurredAt: in.OccurredAt, Notes: in.Notes}
	g.interactions = append(g.interactions, out)
	return &out, nil
}

func (g *fakeGateway) DeleteInteraction(_ context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return errBackendDown
	}
	for i, in := range g.interactions {
		if in.ID == id {
			g.interactions = append(g.interactions[:i], g.interactions[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (g *fakeGateway) OverviewStats(context.Context) (*models.OverviewStats, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	s := g.stats
	return &s, nil
}

func (g *fakeGateway) WeeklyActivity(context.Context) (*models.WeeklyActivity, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail {
		return nil, errBackendDown
	}
	w := g.weekly
	return &w, nil
}
