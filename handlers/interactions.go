// ABOUTME: Interaction MCP tool handlers
// ABOUTME: Implements list_interactions, log_interaction, and delete_interaction tools
package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
)

type InteractionHandlers struct {
	gw  app.Gateway
	now func() time.Time
}

func NewInteractionHandlers(gw app.Gateway) *InteractionHandlers {
	return &InteractionHandlers{gw: gw, now: time.Now}
}

type InteractionOutput struct {
	ID         int    `json:"id"`
	FriendID   int    `json:"friend_id"`
	FriendName string `json:"friend_name"`
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func interactionToOutput(in models.Interaction, friends []models.Friend) InteractionOutput {
	out := InteractionOutput{
		ID:         in.ID,
		FriendID:   in.FriendID,
		FriendName: app.FriendName(friends, in.FriendID),
		Type:       string(in.Type),
		Notes:      in.Notes,
	}
	if !in.OccurredAt.IsZero() {
		out.OccurredAt = in.OccurredAt.UTC().Format(time.RFC3339)
	}
	return out
}

type ListInteractionsInput struct {
	FriendID int    `json:"friend_id,omitempty" jsonschema:"Only interactions with this friend"`
	Type     string `json:"type,omitempty" jsonschema:"Only this interaction type (meetup, call, video, text)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of results, newest first (default 50)"`
}

type ListInteractionsOutput struct {
	Interactions []InteractionOutput `json:"interactions"`
	Count        int                 `json:"count"`
}

func (h *InteractionHandlers) ListInteractions(ctx context.Context, _ *mcp.CallToolRequest, input ListInteractionsInput) (*mcp.CallToolResult, ListInteractionsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	var typ models.InteractionType
	if strings.TrimSpace(input.Type) != "" {
		t, err := models.ParseInteractionType(input.Type)
		if err != nil {
			return nil, ListInteractionsOutput{}, err
		}
		typ = t
	}

	interactions, err := h.gw.ListInteractions(ctx)
	if err != nil {
		return nil, ListInteractionsOutput{}, fmt.Errorf("failed to list interactions: %w", err)
	}
	// Names are best effort; a failed lookup falls back to "Friend #<id>".
	friends, _ := h.gw.ListFriends(ctx)

	sort.SliceStable(interactions, func(i, j int) bool {
		return interactions[i].OccurredAt.After(interactions[j].OccurredAt.Time)
	})

	result := []InteractionOutput{}
	for _, in := range interactions {
		if input.FriendID != 0 && in.FriendID != input.FriendID {
			continue
		}
		if typ != "" && in.Type != typ {
			continue
		}
		result = append(result, interactionToOutput(in, friends))
		if len(result) == limit {
			break
		}
	}

	return nil, ListInteractionsOutput{Interactions: result, Count: len(result)}, nil
}

type LogInteractionInput struct {
	FriendID   int    `json:"friend_id" jsonschema:"Friend ID (required)"`
	Type       string `json:"type" jsonschema:"Interaction type: meetup, call, video or text (required)"`
	Notes      string `json:"notes,omitempty" jsonschema:"What you talked about"`
	OccurredAt string `json:"occurred_at,omitempty" jsonschema:"When it happened, ISO-8601 (default now)"`
}

func (h *InteractionHandlers) LogInteraction(ctx context.Context, _ *mcp.CallToolRequest, input LogInteractionInput) (*mcp.CallToolResult, InteractionOutput, error) {
	if input.FriendID <= 0 {
		return nil, InteractionOutput{}, fmt.Errorf("friend_id is required")
	}
	typ, err := models.ParseInteractionType(input.Type)
	if err != nil {
		return nil, InteractionOutput{}, err
	}

	occurred := models.NewTimestamp(h.now())
	if strings.TrimSpace(input.OccurredAt) != "" {
		occurred, err = models.ParseTimestamp(input.OccurredAt)
		if err != nil {
			return nil, InteractionOutput{}, fmt.Errorf("invalid occurred_at: %w", err)
		}
	}

	// Resolve the friend first so a typo doesn't log against a stranger.
	friend, err := findFriend(ctx, h.gw, input.FriendID)
	if err != nil {
		return nil, InteractionOutput{}, err
	}

	req := models.InteractionInput{
		FriendID:   input.FriendID,
		Type:       typ,
		OccurredAt: occurred,
		Notes:      strings.TrimSpace(input.Notes),
	}
	created, err := h.gw.CreateInteraction(ctx, req)
	if err != nil {
		return nil, InteractionOutput{}, fmt.Errorf("failed to log interaction: %w", err)
	}
	if created == nil {
		created = &models.Interaction{FriendID: req.FriendID, Type: req.Type, OccurredAt: req.OccurredAt, Notes: req.Notes}
	}
	return nil, interactionToOutput(*created, []models.Friend{friend}), nil
}

func (h *InteractionHandlers) DeleteInteraction(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID <= 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.gw.DeleteInteraction(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete interaction %d: %w", input.ID, err)
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true, Message: fmt.Sprintf("Interaction %d deleted", input.ID)}, nil
}
