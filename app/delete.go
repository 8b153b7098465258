// ABOUTME: Two-step deletion of friends and interactions
// ABOUTME: Nothing reaches the gateway until the pending deletion is confirmed
package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harperreed/friendlog/api"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

func (c *Controller) requestDelete(kind DeleteKind, id int) error {
	var label string
	switch kind {
	case DeleteFriend:
		f, ok := findFriend(c.st.Friends, id)
		if !ok {
			c.rejectUnknownFriend(id)
			return nil
		}
		label = FriendName(c.st.Friends, f.ID)
	case DeleteInteraction:
		label = fmt.Sprintf("interaction #%d", id)
		for _, in := range c.st.Interactions {
			if in.ID == id {
				label = fmt.Sprintf("%s with %s", strings.ToLower(in.Type.Label()), FriendName(c.st.Friends, in.FriendID))
				break
			}
		}
	default:
		return fmt.Errorf("unknown delete kind %q", kind)
	}

	c.update(func(s *State) {
		s.Log = LogModalState{}
		s.Friend = FriendModalState{}
		s.Pending = &PendingDelete{Kind: kind, ID: id, Label: label}
	})
	return nil
}

func (c *Controller) rejectUnknownFriend(id int) {
	c.log.Warn("delete requested for a friend missing from the cache", zap.Int("friend_id", id))
	c.toast(notify.LevelError, fmt.Sprintf("Couldn't delete friend #%d: it isn't in the list.", id))
}

func (c *Controller) confirmDelete(ctx context.Context) error {
	pending := c.st.Pending
	if pending == nil {
		return nil
	}
	c.update(func(s *State) {
		s.Pending = nil
	})

	switch pending.Kind {
	case DeleteFriend:
		return c.deleteFriend(ctx, pending.ID)
	case DeleteInteraction:
		c.deleteInteraction(ctx, pending.ID)
		return nil
	}
	return fmt.Errorf("unknown delete kind %q", pending.Kind)
}

// deleteFriend removes the friend, filters the cache locally and marks it
// invalid so the next read refetches. The filtered list is what the friends
// page falls back to if that refetch fails.
func (c *Controller) deleteFriend(ctx context.Context, id int) error {
	f, ok := findFriend(c.st.Friends, id)
	if !ok {
		c.rejectUnknownFriend(id)
		return nil
	}

	if err := c.gw.DeleteFriend(ctx, id); err != nil {
		if api.IsNotFound(err) {
			c.log.Warn("friend already gone", zap.Int("friend_id", id), zap.Error(err))
			c.update(func(s *State) {
				s.CacheValid = false
			})
			c.refetchFriends(ctx)
			c.toast(notify.LevelWarning, fmt.Sprintf("%s was already removed (stale id). The list was refreshed.", f.Name))
			return nil
		}
		c.log.Warn("failed to delete friend", zap.Int("friend_id", id), zap.Error(err))
		c.toast(notify.LevelError, "Failed to delete friend: "+api.UserMessage(err))
		return nil
	}

	c.update(func(s *State) {
		s.Friends = withoutFriend(s.Friends, id)
		s.CacheValid = false
	})
	c.toast(notify.LevelSuccess, fmt.Sprintf("%s deleted.", FriendName([]models.Friend{f}, id)))

	nav, ok := c.followUp(ctx)
	if !ok {
		return nil
	}
	return c.enter(nav, c.st.Page)
}

// deleteInteraction filters the in-memory list and re-renders in place.
func (c *Controller) deleteInteraction(ctx context.Context, id int) {
	if err := c.gw.DeleteInteraction(ctx, id); err != nil {
		if !api.IsNotFound(err) {
			c.log.Warn("failed to delete interaction", zap.Int("interaction_id", id), zap.Error(err))
			c.toast(notify.LevelError, "Failed to delete interaction: "+api.UserMessage(err))
			return
		}
		c.log.Warn("interaction already gone", zap.Int("interaction_id", id), zap.Error(err))
		c.toast(notify.LevelWarning, "That interaction was already removed.")
	} else {
		c.toast(notify.LevelSuccess, "Interaction deleted.")
	}

	c.update(func(s *State) {
		s.Interactions = withoutInteraction(s.Interactions, id)
	})
	if c.st.Page == PageInteractions {
		c.renderInteractions()
	}
}

func withoutFriend(friends []models.Friend, id int) []models.Friend {
	out := make([]models.Friend, 0, len(friends))
	for _, f := range friends {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func withoutInteraction(list []models.Interaction, id int) []models.Interaction {
	out := make([]models.Interaction, 0, len(list))
	for _, in := range list {
		if in.ID != id {
			out = append(out, in)
		}
	}
	return out
}
