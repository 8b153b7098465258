// ABOUTME: Page entry effects: fetching, cache replacement and rendering
// ABOUTME: Failed sources degrade to empty data; superseded navigations are dropped
package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harperreed/friendlog/api"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/notify"
)

func (c *Controller) enter(nav navigation, page Page) error {
	switch page {
	case PageDashboard:
		c.loadDashboard(nav)
	case PageFriends:
		c.loadFriends(nav)
	case PageInteractions:
		c.loadInteractions(nav)
	case PageSettings:
		view := c.safeRender(string(page), c.render.Settings)
		c.update(func(s *State) {
			show(s, page, view)
		})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPage, page)
	}
	return nil
}

func show(s *State, page Page, view string) {
	s.Page = page
	s.Chrome = ChromeFor(page)
	s.View = view
}

func (c *Controller) dropped(nav navigation, page Page) bool {
	if c.current(nav) {
		return false
	}
	c.log.Debug("dropping superseded navigation", zap.String("page", string(page)), zap.Uint64("generation", nav.gen))
	return true
}

// loadDashboard fetches the three dashboard sources concurrently. Each
// source that fails is replaced by its zero value; the rest render normally.
func (c *Controller) loadDashboard(nav navigation) {
	var (
		friends    []models.Friend
		weekly     models.WeeklyActivity
		stats      models.OverviewStats
		friendsErr error
		weeklyErr  error
		statsErr   error
	)

	var g errgroup.Group
	g.Go(func() error {
		friends, friendsErr = c.gw.ListFriends(nav.ctx)
		return nil
	})
	g.Go(func() error {
		w, err := c.gw.WeeklyActivity(nav.ctx)
		if err == nil && w != nil {
			weekly = *w
		}
		weeklyErr = err
		return nil
	})
	g.Go(func() error {
		st, err := c.gw.OverviewStats(nav.ctx)
		if err == nil && st != nil {
			stats = *st
		}
		statsErr = err
		return nil
	})
	_ = g.Wait()

	if c.dropped(nav, PageDashboard) {
		return
	}

	var failed []string
	for _, src := range []struct {
		name string
		err  error
	}{
		{"friends", friendsErr},
		{"weekly activity", weeklyErr},
		{"overview stats", statsErr},
	} {
		if src.err != nil {
			c.log.Warn("dashboard source failed", zap.String("source", src.name), zap.Error(src.err))
			failed = append(failed, src.name)
		}
	}
	if friendsErr != nil {
		friends = nil
	}

	data := DashboardData{Stats: stats, Friends: friends, Weekly: weekly}
	data.Chart = c.safeRender("weekly chart", func() (string, error) {
		return c.render.WeeklyChart(weekly)
	})
	view := c.safeRender(string(PageDashboard), func() (string, error) {
		return c.render.Dashboard(data)
	})

	c.update(func(s *State) {
		show(s, PageDashboard, view)
		s.Dashboard = data
		if friendsErr == nil {
			s.Friends = friends
			s.CacheValid = true
		}
	})

	if len(failed) > 0 {
		c.notifier.Notify(notify.Notification{
			Message: fmt.Sprintf("Couldn't load %s. Showing what we have.", strings.Join(failed, ", ")),
			Level:   notify.LevelWarning,
			Action:  &notify.Action{Label: "Retry", Run: c.retry},
		})
	}
}

// retry is the action behind "Retry" toasts.
func (c *Controller) retry() {
	if err := c.Dispatch(c.base, Refresh{}); err != nil {
		c.log.Warn("retry failed", zap.Error(err))
	}
}

// loadFriends renders the friends page, fetching only when the cache is
// empty or invalidated. If that fetch fails the current list is the fallback.
func (c *Controller) loadFriends(nav navigation) {
	friends := c.st.Friends
	valid := c.st.CacheValid

	if !valid || len(friends) == 0 {
		fetched, err := c.gw.ListFriends(nav.ctx)
		if c.dropped(nav, PageFriends) {
			return
		}
		if err != nil {
			c.log.Warn("failed to load friends", zap.Error(err))
			c.toast(notify.LevelError, "Couldn't load friends: "+api.UserMessage(err))
		} else {
			friends = fetched
			valid = true
		}
	}

	view := c.safeRender(string(PageFriends), func() (string, error) {
		return c.render.Friends(friends)
	})
	c.update(func(s *State) {
		show(s, PageFriends, view)
		s.Friends = friends
		s.CacheValid = valid
	})
}

// loadInteractions always fetches; interactions are never cached.
func (c *Controller) loadInteractions(nav navigation) {
	list, err := c.gw.ListInteractions(nav.ctx)
	if c.dropped(nav, PageInteractions) {
		return
	}
	if err != nil {
		c.log.Warn("failed to load interactions", zap.Error(err))
		c.toast(notify.LevelError, "Couldn't load interactions: "+api.UserMessage(err))
		list = nil
	}

	c.update(func(s *State) {
		s.Interactions = list
	})
	c.renderInteractions()
}

func (c *Controller) renderInteractions() {
	rows := InteractionRows(c.st.Interactions, c.st.Friends)
	view := c.safeRender(string(PageInteractions), func() (string, error) {
		return c.render.Interactions(rows)
	})
	c.update(func(s *State) {
		show(s, PageInteractions, view)
	})
}
