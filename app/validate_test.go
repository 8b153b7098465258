// ABOUTME: Table tests for friend form validation
// ABOUTME: Mirrors the accepted and rejected examples the form must honour
package app_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
)

func TestValidateFriend(t *testing.T) {
	tests := []struct {
		name  string
		in    models.FriendInput
		field string
	}{
		{"empty name", models.FriendInput{}, "name"},
		{"blank name", models.FriendInput{Name: "  \t"}, "name"},
		{"email without dot suffix", models.FriendInput{Name: "Jo", Email: "foo@bar"}, "email"},
		{"email with spaces", models.FriendInput{Name: "Jo", Email: "a b@c.de"}, "email"},
		{"short phone", models.FriendInput{Name: "Jo", Phone: "123"}, "phone"},
		{"five char phone", models.FriendInput{Name: "Jo", Phone: "12345"}, "phone"},
		{"first rule wins", models.FriendInput{Email: "nope", Phone: "1"}, "name"},
		{"valid", models.FriendInput{Name: "Jo", Email: "a@b.co", Phone: "555555"}, ""},
		{"name only", models.FriendInput{Name: "Jo"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.ValidateFriend(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *app.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.NotEmpty(t, ve.Error())
		})
	}
}
