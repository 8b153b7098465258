// ABOUTME: Explicit UI state owned by the controller
// ABOUTME: Pages, modal sub-states, pending deletion and the friends cache snapshot
package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/friendlog/models"
)

// Page is one of the routed screens.
type Page string

// Pages.
const (
	PageDashboard    Page = "dashboard"
	PageFriends      Page = "friends"
	PageInteractions Page = "interactions"
	PageSettings     Page = "settings"
)

// Pages lists every page in navigation order.
var Pages = []Page{PageDashboard, PageFriends, PageInteractions, PageSettings}

// ErrUnknownPage is returned when navigation names a page that doesn't exist.
var ErrUnknownPage = errors.New("unknown page")

// ParsePage resolves a page name.
func ParsePage(s string) (Page, error) {
	p := Page(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pages {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Next returns the page after p, wrapping around.
func (p Page) Next() Page {
	for i, known := range Pages {
		if known == p {
			return Pages[(i+1)%len(Pages)]
		}
	}
	return PageDashboard
}

// Modal identifies an overlay dialog.
type Modal string

// Modals.
const (
	ModalNone   Modal = ""
	ModalLog    Modal = "log"
	ModalFriend Modal = "friend"
)

// ParseModal resolves a modal name.
func ParseModal(s string) (Modal, error) {
	switch m := Modal(strings.ToLower(strings.TrimSpace(s))); m {
	case ModalLog, ModalFriend:
		return m, nil
	}
	return ModalNone, fmt.Errorf("unknown modal %q", s)
}

// DismissReason records how a modal was closed.
type DismissReason string

// Dismiss reasons.
const (
	DismissControl DismissReason = "control"
	DismissOverlay DismissReason = "overlay"
	DismissEscape  DismissReason = "escape"
)

// DeleteKind names what a pending deletion targets.
type DeleteKind string

// Delete kinds.
const (
	DeleteFriend      DeleteKind = "friend"
	DeleteInteraction DeleteKind = "interaction"
)

// FocusFriend is the log modal's initial focus target.
const FocusFriend = "friend"

// FriendOption is one entry in the log modal's friend selector.
type FriendOption struct {
	ID   int
	Name string
}

// LogModalState is the Log-Interaction dialog.
type LogModalState struct {
	Open           bool
	Options        []FriendOption
	SelectedFriend int
	SelectedType   models.InteractionType
	Focus          string
}

// FriendModalState is the Add/Edit-Friend dialog. EditingID is nil in add mode.
type FriendModalState struct {
	Open      bool
	EditingID *int
	Form      models.FriendInput
	// Error is the inline validation message, empty when the form is valid.
	Error string
}

// Editing reports whether the modal is in edit mode.
func (m FriendModalState) Editing() bool {
	return m.EditingID != nil
}

// PendingDelete is a deletion awaiting confirmation.
type PendingDelete struct {
	Kind  DeleteKind
	ID    int
	Label string
}

// InteractionRow is an interaction with its friend's display name resolved.
type InteractionRow struct {
	models.Interaction
	FriendName string
}

// DashboardData is everything the dashboard view shows.
type DashboardData struct {
	Stats   models.OverviewStats
	Friends []models.Friend
	Weekly  models.WeeklyActivity
	// Chart is the rendered weekly chart, empty when drawing failed.
	Chart string
}

// State is a snapshot of everything on screen.
type State struct {
	Page   Page
	Chrome Chrome
	// View is the rendered body of the active page.
	View string

	Dashboard    DashboardData
	Interactions []models.Interaction

	// Friends mirrors the backend list. It is non-authoritative.
	Friends    []models.Friend
	CacheValid bool

	Log     LogModalState
	Friend  FriendModalState
	Pending *PendingDelete
}

// OpenModal returns the modal currently shown, if any.
func (s State) OpenModal() Modal {
	switch {
	case s.Log.Open:
		return ModalLog
	case s.Friend.Open:
		return ModalFriend
	}
	return ModalNone
}

// clone deep-copies the slices and pointers so snapshots can't alias
// controller state.
func (s State) clone() State {
	out := s
	out.Friends = append([]models.Friend(nil), s.Friends...)
	out.Interactions = append([]models.Interaction(nil), s.Interactions...)
	out.Dashboard.Friends = append([]models.Friend(nil), s.Dashboard.Friends...)
	out.Dashboard.Weekly.Labels = append([]string(nil), s.Dashboard.Weekly.Labels...)
	out.Dashboard.Weekly.Data = append([]int(nil), s.Dashboard.Weekly.Data...)
	out.Log.Options = append([]FriendOption(nil), s.Log.Options...)
	if s.Friend.EditingID != nil {
		id := *s.Friend.EditingID
		out.Friend.EditingID = &id
	}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// FriendName resolves id against friends, falling back to "Friend #<id>".
func FriendName(friends []models.Friend, id int) string {
	if f, ok := findFriend(friends, id); ok && f.Name != "" {
		return f.Name
	}
	return fmt.Sprintf("Friend #%d", id)
}

// InteractionRows resolves friend names for display.
func InteractionRows(interactions []models.Interaction, friends []models.Friend) []InteractionRow {
	rows := make([]InteractionRow, len(interactions))
	for i, in := range interactions {
		rows[i] = InteractionRow{Interaction: in, FriendName: FriendName(friends, in.FriendID)}
	}
	return rows
}

func findFriend(friends []models.Friend, id int) (models.Friend, bool) {
	for _, f := range friends {
		if f.ID == id {
			return f, true
		}
	}
	return models.Friend{}, false
}

func friendOptions(friends []models.Friend) []FriendOption {
	opts := make([]FriendOption, len(friends))
	for i, f := range friends {
		opts[i] = FriendOption{ID: f.ID, Name: FriendName(friends, f.ID)}
	}
	return opts
}
