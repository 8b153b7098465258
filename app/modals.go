// ABOUTME: Log-Interaction and Add/Edit-Friend modal state machines
// ABOUTME: Opening resets transient selection; submits validate before any gateway call
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/harperreed/friendlog/api"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

func (c *Controller) openLogModal() {
	c.update(func(s *State) {
		closeOverlays(s)
		s.Log = LogModalState{
			Open:    true,
			Options: friendOptions(s.Friends),
			Focus:   FocusFriend,
		}
	})
}

func (c *Controller) selectInteractionType(t models.InteractionType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown interaction type %q", t)
	}
	if !c.st.Log.Open {
		return nil
	}
	c.update(func(s *State) {
		s.Log.SelectedType = t
	})
	return nil
}

func (c *Controller) selectFriend(id int) error {
	if !c.st.Log.Open {
		return nil
	}
	if id != 0 && !hasOption(c.st.Log.Options, id) {
		return fmt.Errorf("%w: %d", ErrUnknownFriend, id)
	}
	c.update(func(s *State) {
		s.Log.SelectedFriend = id
	})
	return nil
}

func hasOption(opts []FriendOption, id int) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (c *Controller) submitInteraction(ctx context.Context, cmd SubmitInteraction) error {
	if !c.st.Log.Open {
		c.log.Debug("ignoring interaction submit with the modal closed")
		return nil
	}

	friendID := cmd.FriendID
	if friendID == 0 {
		friendID = c.st.Log.SelectedFriend
	}
	typ := cmd.Type
	if typ == "" {
		typ = c.st.Log.SelectedType
	}
	c.update(func(s *State) {
		s.Log.SelectedFriend = friendID
		if typ.Valid() {
			s.Log.SelectedType = typ
		}
	})

	if friendID == 0 || !typ.Valid() {
		c.toast(notify.LevelWarning, "Please select a friend and an interaction type.")
		return nil
	}

	in := models.InteractionInput{
		FriendID:   friendID,
		Type:       typ,
		OccurredAt: models.NewTimestamp(c.now()),
		Notes:      strings.TrimSpace(cmd.Notes),
	}
	if _, err := c.gw.CreateInteraction(ctx, in); err != nil {
		c.log.Warn("failed to log interaction", zap.Int("friend_id", friendID), zap.Error(err))
		c.toast(notify.LevelError, "Failed to log interaction: "+api.UserMessage(err))
		return nil
	}

	name := FriendName(c.st.Friends, friendID)
	c.update(func(s *State) {
		s.Log = LogModalState{}
	})
	c.toast(notify.LevelSuccess, fmt.Sprintf("Logged a %s with %s.", strings.ToLower(typ.Label()), name))

	nav, ok := c.followUp(ctx)
	if !ok {
		return nil
	}
	return c.enter(nav, PageDashboard)
}

func (c *Controller) openFriendModal(id *int) {
	state := FriendModalState{Open: true, Form: models.FriendInput{Preference: models.DefaultPreference}}
	if id != nil {
		if f, ok := findFriend(c.st.Friends, *id); ok {
			editing := *id
			state.EditingID = &editing
			state.Form = f.Input()
			if state.Form.Preference == "" {
				state.Form.Preference = models.DefaultPreference
			}
		} else {
			c.log.Warn("edit requested for a friend missing from the cache", zap.Int("friend_id", *id))
			c.toast(notify.LevelWarning, fmt.Sprintf("Friend #%d isn't in the list anymore. Adding a new friend instead.", *id))
		}
	}

	c.update(func(s *State) {
		closeOverlays(s)
		s.Friend = state
	})
}

func (c *Controller) submitFriend(ctx context.Context, form models.FriendInput) error {
	if !c.st.Friend.Open {
		c.log.Debug("ignoring friend submit with the modal closed")
		return nil
	}

	form = form.Normalize()
	if err := ValidateFriend(form); err != nil {
		msg := err.Error()
		var ve *ValidationError
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		c.update(func(s *State) {
			s.Friend.Form = form
			s.Friend.Error = msg
		})
		return nil
	}
	c.update(func(s *State) {
		s.Friend.Form = form
		s.Friend.Error = ""
	})

	editingID := c.st.Friend.EditingID
	updating := false
	if editingID != nil {
		_, updating = findFriend(c.st.Friends, *editingID)
	}

	var (
		saved *models.Friend
		err   error
	)
	if updating {
		saved, err = c.gw.UpdateFriend(ctx, *editingID, form)
	} else {
		saved, err = c.gw.CreateFriend(ctx, form)
	}
	if err != nil {
		if api.IsNotFound(err) {
			c.recoverStaleFriend(ctx, err)
			return nil
		}
		c.log.Warn("failed to save friend", zap.Bool("update", updating), zap.Error(err))
		c.toast(notify.LevelError, "Failed to save friend: "+api.UserMessage(err))
		return nil
	}

	c.update(func(s *State) {
		if saved != nil {
			s.Friends = patchFriend(s.Friends, *saved)
		}
		s.CacheValid = false
		s.Friend = FriendModalState{}
	})
	if updating {
		c.toast(notify.LevelSuccess, fmt.Sprintf("%s updated.", form.Name))
	} else {
		c.toast(notify.LevelSuccess, fmt.Sprintf("%s added.", form.Name))
	}

	target := PageDashboard
	if c.st.Page == PageFriends {
		target = PageFriends
	}
	nav, ok := c.followUp(ctx)
	if !ok {
		return nil
	}
	return c.enter(nav, target)
}

// recoverStaleFriend handles a 404 on a friend mutation: the cache is
// refetched, the editing id dropped so the next submit creates, and the
// user told why. No retry.
func (c *Controller) recoverStaleFriend(ctx context.Context, cause error) {
	c.log.Warn("friend id is stale", zap.Error(cause))
	c.update(func(s *State) {
		s.CacheValid = false
		s.Friend.EditingID = nil
	})
	c.refetchFriends(ctx)
	c.toast(notify.LevelWarning, "That friend no longer exists (stale id). The list was refreshed; submit again to add them as new.")
}

// refetchFriends reloads the cache outside a navigation and re-renders the
// friends page if it is showing.
func (c *Controller) refetchFriends(ctx context.Context) {
	friends, err := c.gw.ListFriends(ctx)
	if err != nil {
		c.log.Warn("failed to refetch friends", zap.Error(err))
		return
	}
	c.update(func(s *State) {
		s.Friends = friends
		s.CacheValid = true
	})
	if c.st.Page != PageFriends {
		return
	}
	view := c.safeRender(string(PageFriends), func() (string, error) {
		return c.render.Friends(friends)
	})
	c.update(func(s *State) {
		show(s, PageFriends, view)
	})
}

func patchFriend(friends []models.Friend, f models.Friend) []models.Friend {
	out := make([]models.Friend, 0, len(friends)+1)
	replaced := false
	for _, existing := range friends {
		if existing.ID == f.ID {
			out = append(out, f)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, f)
	}
	return out
}

func (c *Controller) dismiss(modal Modal, reason DismissReason) {
	open := c.st.OpenModal()
	if open == ModalNone || (modal != ModalNone && modal != open) {
		return
	}
	c.log.Debug("modal dismissed", zap.String("modal", string(open)), zap.String("reason", string(reason)))
	c.update(func(s *State) {
		s.Log = LogModalState{}
		s.Friend = FriendModalState{}
	})
}

func (c *Controller) escape() {
	if c.st.Pending != nil {
		c.update(func(s *State) {
			s.Pending = nil
		})
		return
	}
	c.dismiss(ModalNone, DismissEscape)
}
