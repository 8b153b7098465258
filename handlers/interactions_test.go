// ABOUTME: Tests for interaction MCP tool handlers
// ABOUTME: Covers ordering, filters, timestamps, and friend resolution when logging
package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/friendlog/models"
)

func TestListInteractionsNewestFirst(t *testing.T) {
	h := NewInteractionHandlers(newFakeGateway())

	_, out, err := h.ListInteractions(context.Background(), nil, ListInteractionsInput{})
	require.NoError(t, err)
	require.Equal(t, 3, out.Count)
	assert.Equal(t, []int{11, 12, 10}, []int{out.Interactions[0].ID, out.Interactions[1].ID, out.Interactions[2].ID})
	assert.Equal(t, "Alice Smith", out.Interactions[0].FriendName)
	assert.Equal(t, "2024-03-05T12:00:00Z", out.Interactions[0].OccurredAt)
}

func TestListInteractionsFilters(t *testing.T) {
	h := NewInteractionHandlers(newFakeGateway())

	_, out, err := h.ListInteractions(context.Background(), nil, ListInteractionsInput{FriendID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	_, out, err = h.ListInteractions(context.Background(), nil, ListInteractionsInput{Type: "TEXT"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Carol", out.Interactions[0].FriendName)

	_, out, err = h.ListInteractions(context.Background(), nil, ListInteractionsInput{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)

	_, _, err = h.ListInteractions(context.Background(), nil, ListInteractionsInput{Type: "fax"})
	assert.Error(t, err)
}

func TestLogInteraction(t *testing.T) {
	gw := newFakeGateway()
	h := NewInteractionHandlers(gw)
	now := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{FriendID: 2, Type: "Call", Notes: "  birthday  "})
	require.NoError(t, err)
	assert.Equal(t, "Bob", out.FriendName)
	assert.Equal(t, "call", out.Type)
	assert.Equal(t, "2024-04-01T09:30:00Z", out.OccurredAt)

	require.Len(t, gw.created, 1)
	assert.Equal(t, models.InteractionCall, gw.created[0].Type)
	assert.Equal(t, "birthday", gw.created[0].Notes)
}

func TestLogInteractionExplicitTime(t *testing.T) {
	gw := newFakeGateway()
	h := NewInteractionHandlers(gw)

	_, out, err := h.LogInteraction(context.Background(), nil, LogInteractionInput{FriendID: 1, Type: "video", OccurredAt: "2024-02-10T18:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10T18:00:00Z", out.OccurredAt)
}

func TestLogInteractionErrors(t *testing.T) {
	gw := newFakeGateway()
	h := NewInteractionHandlers(gw)

	tests := []struct {
		name  string
		input LogInteractionInput
	}{
		{"missing friend", LogInteractionInput{Type: "call"}},
		{"bad type", LogInteractionInput{FriendID: 1, Type: "fax"}},
		{"bad time", LogInteractionInput{FriendID: 1, Type: "call", OccurredAt: "yesterday"}},
		{"unknown friend", LogInteractionInput{FriendID: 99, Type: "call"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := h.LogInteraction(context.Background(), nil, tt.input)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, gw.created)
}

func TestDeleteInteraction(t *testing.T) {
	gw := newFakeGateway()
	h := NewInteractionHandlers(gw)

	_, out, err := h.DeleteInteraction(context.Background(), nil, DeleteInput{ID: 10})
	require.NoError(t, err)
	assert.True(t, out.Deleted)
	assert.Len(t, gw.interactions, 2)

	_, _, err = h.DeleteInteraction(context.Background(), nil, DeleteInput{ID: 0})
	assert.EqualError(t, err, "id is required")
}
