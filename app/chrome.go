// ABOUTME: Page header text and primary action per page
// ABOUTME: Shared by every adapter so titles stay consistent
package app

// HeaderAction is the primary button shown in the page header.
type HeaderAction struct {
	Label   string
	Command Command
}

// Chrome is the header of a page.
type Chrome struct {
	Title    string
	Subtitle string
	Action   *HeaderAction
}

// ChromeFor returns the header for page.
func ChromeFor(page Page) Chrome {
	switch page {
	case PageDashboard:
		return Chrome{
			Title:    "Your Friendship Dashboard",
			Subtitle: "A mindful way to nurture your meaningful connections",
			Action:   &HeaderAction{Label: "Log Interaction", Command: OpenLogModal{}},
		}
	case PageFriends:
		return Chrome{
			Title:    "Manage Friends",
			Subtitle: "Add, edit, and organize your meaningful connections",
			Action:   &HeaderAction{Label: "Add Friend", Command: OpenFriendModal{}},
		}
	case PageInteractions:
		return Chrome{
			Title:    "Interactions",
			Subtitle: "Every conversation, call and catch-up you've logged",
		}
	case PageSettings:
		return Chrome{
			Title:    "Settings",
			Subtitle: "Manage your application",
		}
	}
	return Chrome{}
}
