// ABOUTME: The command enumeration adapters translate raw UI events into
// ABOUTME: Every user intent reaches the controller as one of these values
package app

import "github.com/harperreed/friendlog/models"

// Command is a UI intent consumed by Controller.Dispatch.
type Command interface {
	command()
}

// Navigate switches the active page.
type Navigate struct {
	Page Page
}

// OpenLogModal opens the Log-Interaction dialog.
type OpenLogModal struct{}

// OpenFriendModal opens the friend dialog; a nil ID means add mode.
type OpenFriendModal struct {
	ID *int
}

// SelectInteractionType picks one button of the type group.
type SelectInteractionType struct {
	Type models.InteractionType
}

// SelectFriend picks a friend in the log dialog.
type SelectFriend struct {
	ID int
}

// SubmitInteraction posts the log dialog. Zero fields fall back to the
// dialog's current selection.
type SubmitInteraction struct {
	FriendID int
	Type     models.InteractionType
	Notes    string
}

// SubmitFriend posts the friend dialog.
type SubmitFriend struct {
	Form models.FriendInput
}

// Dismiss closes a modal.
type Dismiss struct {
	Modal  Modal
	Reason DismissReason
}

// KeyEscape is an Escape key press.
type KeyEscape struct{}

// RequestDelete asks for confirmation before deleting.
type RequestDelete struct {
	Kind DeleteKind
	ID   int
}

// ConfirmDelete performs the pending deletion.
type ConfirmDelete struct{}

// CancelDelete abandons the pending deletion.
type CancelDelete struct{}

// Refresh drops the cache and re-enters the active page.
type Refresh struct{}

func (Navigate) command()              {}
func (OpenLogModal) command()          {}
func (OpenFriendModal) command()       {}
func (SelectInteractionType) command() {}
func (SelectFriend) command()          {}
func (SubmitInteraction) command()     {}
func (SubmitFriend) command()          {}
func (Dismiss) command()               {}
func (KeyEscape) command()             {}
func (RequestDelete) command()         {}
func (ConfirmDelete) command()         {}
func (CancelDelete) command()          {}
func (Refresh) command()               {}

// IntPtr is a convenience for OpenFriendModal{ID: app.IntPtr(id)}.
func IntPtr(v int) *int {
	return &v
}
