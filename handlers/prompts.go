// ABOUTME: MCP prompt handlers for reusable friendship workflow templates
// ABOUTME: Provides friend-summary and reconnect-suggestions prompts built from live data
package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/render"
)

// Friends not contacted for at least this many days are reconnect candidates.
const defaultReconnectDays = 14

type PromptHandlers struct {
	gw app.Gateway
}

func NewPromptHandlers(gw app.Gateway) *PromptHandlers {
	return &PromptHandlers{gw: gw}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	arguments := request.Params.Arguments
	switch name {
	case "friend-summary":
		return h.getFriendSummaryPrompt(ctx, arguments)
	case "reconnect-suggestions":
		return h.getReconnectSuggestionsPrompt(ctx, arguments)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", name)
	}
}

func (h *PromptHandlers) getFriendSummaryPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	idStr, ok := args["friend_id"]
	if !ok {
		return nil, fmt.Errorf("friend_id is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid friend_id: %w", err)
	}

	friend, err := findFriend(ctx, h.gw, id)
	if err != nil {
		return nil, err
	}
	interactions, err := h.gw.ListInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	var history []models.Interaction
	for _, in := range interactions {
		if in.FriendID == id {
			history = append(history, in)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].OccurredAt.After(history[j].OccurredAt.Time)
	})

	var promptText strings.Builder
	promptText.WriteString("Please summarize my friendship with this person:\n\n")
	promptText.WriteString(fmt.Sprintf("Name: %s\n", render.DisplayName(friend)))
	if friend.Email != "" {
		promptText.WriteString(fmt.Sprintf("Email: %s\n", friend.Email))
	}
	if friend.Phone != "" {
		promptText.WriteString(fmt.Sprintf("Phone: %s\n", friend.Phone))
	}
	promptText.WriteString(fmt.Sprintf("Prefers: %s\n", render.PreferenceOrDefault(friend.Preference)))
	promptText.WriteString(fmt.Sprintf("Last contact: %s\n", render.LastContactPhrase(friend.LastContactDays)))
	promptText.WriteString(fmt.Sprintf("Connection strength: %d%%\n", render.ClampPercent(friend.Connection)))
	if friend.Bio != "" {
		promptText.WriteString(fmt.Sprintf("\nBio: %s\n", friend.Bio))
	}

	if len(history) > 0 {
		promptText.WriteString(fmt.Sprintf("\nRecent interactions (%d total):\n", len(history)))
		for i, in := range history {
			if i == 10 {
				break
			}
			line := fmt.Sprintf("- %s %s", render.FormatTime(in.OccurredAt), in.Type.Label())
			if in.Notes != "" {
				line += ": " + in.Notes
			}
			promptText.WriteString(line + "\n")
		}
	} else {
		promptText.WriteString("\nNo interactions logged yet.\n")
	}

	promptText.WriteString("\nPlease provide:")
	promptText.WriteString("\n1. A short summary of how we stay in touch")
	promptText.WriteString("\n2. Topics worth following up on")
	promptText.WriteString("\n3. A suggestion for our next get-together")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Summary for friend: %s", render.DisplayName(friend)),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getReconnectSuggestionsPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	days := defaultReconnectDays
	if v, ok := args["days"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid days: %s", v)
		}
		days = n
	}

	friends, err := h.gw.ListFriends(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %w", err)
	}

	var stale []models.Friend
	for _, f := range friends {
		if f.LastContactDays >= days {
			stale = append(stale, f)
		}
	}
	sort.SliceStable(stale, func(i, j int) bool {
		return stale[i].LastContactDays > stale[j].LastContactDays
	})

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("These friends haven't heard from me in %d days or more:\n\n", days))
	if len(stale) == 0 {
		promptText.WriteString("Everyone is up to date.\n")
	}
	for _, f := range stale {
		promptText.WriteString(fmt.Sprintf("- %s (last contact %s, prefers %s, connection %d%%)\n",
			render.DisplayName(f),
			render.LastContactPhrase(f.LastContactDays),
			render.PreferenceOrDefault(f.Preference),
			render.ClampPercent(f.Connection)))
	}

	promptText.WriteString("\nFor each friend, suggest a low-effort way to reconnect that fits how they like to keep in touch.")
	promptText.WriteString(" Put the people I've gone longest without contacting first.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Reconnect suggestions (%d friends)", len(stale)),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: promptText.String()},
			},
		},
	}, nil
}
