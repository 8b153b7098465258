// ABOUTME: Client-side validation for the friend form
// ABOUTME: Reports the first violated rule; never touches the network
package app

import (
	"regexp"
	"unicode/utf8"

	"github.com/harperreed/friendlog/models"
)

// MinPhoneLength is the shortest accepted phone number.
const MinPhoneLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError is a rejected form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateFriend checks name, then email, then phone, and returns the first
// failure. Fields are trimmed before checking.
func ValidateFriend(in models.FriendInput) error {
	in = in.Normalize()
	if in.Name == "" {
		return &ValidationError{Field: "name", Message: "Name is required."}
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address."}
	}
	if in.Phone != "" && utf8.RuneCountInString(in.Phone) < MinPhoneLength {
		return &ValidationError{Field: "phone", Message: "Phone number must be at least 6 characters."}
	}
	return nil
}
