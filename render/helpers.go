// ABOUTME: Pure display helpers shared by the HTML and terminal renderers
// ABOUTME: Stat cards, last-contact phrases, avatars and neutral defaults for missing fields
package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/harperreed/friendlog/models"
)

// Placeholder for missing optional text fields.
const Placeholder = "—"

// StatCard is one dashboard counter.
type StatCard struct {
	Label   string
	Value   string
	Subtext string
	Icon    string
}

// StatCards lays out the overview counters in dashboard order.
func StatCards(s models.OverviewStats) []StatCard {
	return []StatCard{
		{Label: "Total Friends", Value: strconv.Itoa(s.TotalFriends), Subtext: "Active connections", Icon: "👥"},
		{Label: "This Week", Value: strconv.Itoa(s.InteractionsThisWeek), Subtext: "Total interactions", Icon: "📈"},
		{Label: "Avg Connection", Value: fmt.Sprintf("%d%%", s.AvgConnection), Subtext: "Connection strength", Icon: "💚"},
		{Label: "Need Attention", Value: strconv.Itoa(s.NeedAttention), Subtext: "Friends to reach out to", Icon: "🗓️"},
	}
}

// LastContactPhrase describes how long ago a friend was contacted.
func LastContactPhrase(days int) string {
	switch {
	case days >= models.NeverContactedDays:
		return "never"
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	}
	return fmt.Sprintf("%d days ago", days)
}

// Initials returns up to two uppercase initials, or "?" for an empty name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// AvatarURL returns the friend's avatar or a placeholder image with initials.
func AvatarURL(f models.Friend) string {
	if a := strings.TrimSpace(f.Avatar); a != "" {
		return a
	}
	return "https://placehold.co/48x48/60A5FA/0B1A2B?text=" + url.QueryEscape(Initials(f.Name))
}

// OrPlaceholder substitutes Placeholder for blank text.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

// PreferenceOrDefault returns the contact preference, defaulted when unset.
func PreferenceOrDefault(p string) string {
	if strings.TrimSpace(p) == "" {
		return models.DefaultPreference
	}
	return p
}

// DisplayName substitutes a neutral label for a missing name.
func DisplayName(f models.Friend) string {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Sprintf("Friend #%d", f.ID)
	}
	return f.Name
}

// ClampPercent bounds a connection score to 0..100.
func ClampPercent(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// FormatTime renders an interaction timestamp, or Placeholder when unknown.
func FormatTime(ts models.Timestamp) string {
	if ts.IsZero() {
		return Placeholder
	}
	return ts.Format("Jan 2, 2006 3:04 PM")
}
