// ABOUTME: Data models for the friends tracker
// ABOUTME: Defines Friend, Interaction, dashboard stats, and the mutating request bodies
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Friend is a tracked relationship as returned by the backend.
// Interactions, LastContactDays and Connection are computed server-side.
type Friend struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Preference      string `json:"preference,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Interactions    int    `json:"interactions"`
	LastContactDays int    `json:"lastContactDays"`
	Connection      int    `json:"connection"`
}

func (f *Friend) UnmarshalJSON(data []byte) error {
	type plain Friend
	aux := struct {
		*plain
		Connection roundedInt `json:"connection"`
	}{plain: (*plain)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.Connection = int(aux.Connection)
	return nil
}

// Input returns the mutable fields of f, used to prefill edit forms.
func (f Friend) Input() FriendInput {
	return FriendInput{
		Name:       f.Name,
		Email:      f.Email,
		Phone:      f.Phone,
		Preference: f.Preference,
		Avatar:     f.Avatar,
		Bio:        f.Bio,
	}
}

// FriendInput is the body of create and update calls (Friend fields minus id
// and the server-computed metrics). Every key is always sent so an update
// can clear a field.
type FriendInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Preference string `json:"preference"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
}

// Normalize trims whitespace and applies the default preference.
func (in FriendInput) Normalize() FriendInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Preference = strings.TrimSpace(in.Preference)
	in.Avatar = strings.TrimSpace(in.Avatar)
	in.Bio = strings.TrimSpace(in.Bio)
	if in.Preference == "" {
		in.Preference = DefaultPreference
	}
	return in
}

// Preference constants.
const (
	PreferenceText     = "Text/Chat"
	PreferencePhone    = "Phone Call"
	PreferenceVideo    = "Video Call"
	PreferenceInPerson = "In Person"
	PreferenceEmail    = "Email"

	DefaultPreference = PreferenceText
)

// Preferences lists the known contact channels in display order.
var Preferences = []string{
	PreferenceText,
	PreferencePhone,
	PreferenceVideo,
	PreferenceInPerson,
	PreferenceEmail,
}

// NeverContactedDays is what the backend reports for lastContactDays when a
// friend has no interactions.
const NeverContactedDays = 999

// InteractionType is the channel an interaction happened over.
type InteractionType string

// InteractionType constants.
const (
	InteractionMeetup InteractionType = "meetup"
	InteractionCall   InteractionType = "call"
	InteractionVideo  InteractionType = "video"
	InteractionText   InteractionType = "text"
)

// InteractionTypes lists the valid types in button order.
var InteractionTypes = []InteractionType{
	InteractionMeetup,
	InteractionCall,
	InteractionVideo,
	InteractionText,
}

// Valid reports whether t is one of the known interaction types.
func (t InteractionType) Valid() bool {
	for _, known := range InteractionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a human-readable name for t.
func (t InteractionType) Label() string {
	switch t {
	case InteractionMeetup:
		return "Meetup"
	case InteractionCall:
		return "Call"
	case InteractionVideo:
		return "Video"
	case InteractionText:
		return "Text"
	}
	return string(t)
}

// ParseInteractionType parses s case-insensitively.
func ParseInteractionType(s string) (InteractionType, error) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown interaction type %q (want meetup, call, video or text)", s)
	}
	return t, nil
}

type Interaction struct {
	ID         int             `json:"id"`
	FriendID   int             `json:"friendId"`
	Type       InteractionType `json:"type"`
	OccurredAt Timestamp       `json:"occurredAt"`
	Notes      string          `json:"notes,omitempty"`
}

// InteractionInput is the body of the create-interaction call.
type InteractionInput struct {
	FriendID   int             `json:"friendId"`
	Type       InteractionType `json:"type"`
	OccurredAt Timestamp       `json:"occurredAt"`
	Notes      string          `json:"notes,omitempty"`
}

// OverviewStats are the server-computed dashboard counters.
type OverviewStats struct {
	TotalFriends         int `json:"totalFriends"`
	InteractionsThisWeek int `json:"interactionsThisWeek"`
	AvgConnection        int `json:"avgConnection"`
	NeedAttention        int `json:"needAttention"`
}

func (s *OverviewStats) UnmarshalJSON(data []byte) error {
	type plain OverviewStats
	aux := struct {
		*plain
		AvgConnection roundedInt `json:"avgConnection"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.AvgConnection = int(aux.AvgConnection)
	return nil
}

// roundedInt decodes a server-computed score that may arrive with a
// fraction (77.0, 76.5) and rounds it half away from zero.
type roundedInt int

func (n *roundedInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = roundedInt(math.Round(f))
	return nil
}

// WeeklyActivity holds parallel arrays of day labels and interaction counts.
type WeeklyActivity struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// Validate checks that the arrays line up and counts are non-negative.
func (w WeeklyActivity) Validate() error {
	if len(w.Labels) != len(w.Data) {
		return fmt.Errorf("weekly activity has %d labels but %d values", len(w.Labels), len(w.Data))
	}
	for i, v := range w.Data {
		if v < 0 {
			return fmt.Errorf("weekly activity value for %q is negative: %d", w.Labels[i], v)
		}
	}
	return nil
}

// Max returns the largest count, or 0 for an empty series.
func (w WeeklyActivity) Max() int {
	highest := 0
	for _, v := range w.Data {
		if v > highest {
			highest = v
		}
	}
	return highest
}

// Timestamp is an ISO-8601 instant. The backend emits naive timestamps
// (no zone) which encoding/json's time.Time refuses, so several layouts are
// accepted and naive values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses any of the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339))
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ts.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
