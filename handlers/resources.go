// ABOUTME: MCP resource handlers for exposing friend log data
// ABOUTME: Provides read-only access to friends, interactions, and stats via friendlog:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
)

const resourceScheme = "friendlog://"

type ResourceHandlers struct {
	gw app.Gateway
}

func NewResourceHandlers(gw app.Gateway) *ResourceHandlers {
	return &ResourceHandlers{gw: gw}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	path := strings.TrimSuffix(strings.TrimPrefix(uri, resourceScheme), "/")
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "friends":
		if len(parts) == 1 {
			return h.readAllFriends(ctx, uri)
		}
		return h.readFriend(ctx, uri, parts[1])

	case "interactions":
		return h.readInteractions(ctx, uri)

	case "stats":
		return h.readStats(ctx, uri)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllFriends(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	friends, err := h.gw.ListFriends(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friends: %w", err)
	}
	out := make([]FriendOutput, 0, len(friends))
	for _, f := range friends {
		out = append(out, friendToOutput(f))
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readFriend(ctx context.Context, uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid friend ID: %s", idStr)
	}

	friend, err := findFriend(ctx, h.gw, id)
	if err != nil {
		return nil, err
	}

	interactions, err := h.gw.ListInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}

	type friendDetail struct {
		FriendOutput
		History []InteractionOutput `json:"history"`
	}
	detail := friendDetail{FriendOutput: friendToOutput(friend), History: []InteractionOutput{}}
	for _, in := range interactions {
		if in.FriendID == id {
			detail.History = append(detail.History, interactionToOutput(in, []models.Friend{friend}))
		}
	}
	return jsonResource(uri, detail)
}

func (h *ResourceHandlers) readInteractions(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	interactions, err := h.gw.ListInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions: %w", err)
	}
	friends, _ := h.gw.ListFriends(ctx)

	out := make([]InteractionOutput, 0, len(interactions))
	for _, in := range interactions {
		out = append(out, interactionToOutput(in, friends))
	}
	return jsonResource(uri, out)
}

func (h *ResourceHandlers) readStats(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	_, stats, err := NewStatsHandlers(h.gw).GetDashboardStats(ctx, nil, GetStatsInput{IncludeWeekly: true})
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, stats)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
