// ABOUTME: Friend MCP tool handlers
// ABOUTME: Implements list_friends, add_friend, update_friend, and delete_friend tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/render"
)

type FriendHandlers struct {
	gw app.Gateway
}

func NewFriendHandlers(gw app.Gateway) *FriendHandlers {
	return &FriendHandlers{gw: gw}
}

type FriendOutput struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Preference      string `json:"preference"`
	Bio             string `json:"bio,omitempty"`
	Interactions    int    `json:"interactions"`
	LastContactDays int    `json:"last_contact_days"`
	LastContact     string `json:"last_contact"`
	Connection      int    `json:"connection"`
}

func friendToOutput(f models.Friend) FriendOutput {
	return FriendOutput{
		ID:              f.ID,
		Name:            render.DisplayName(f),
		Email:           f.Email,
		Phone:           f.Phone,
		Preference:      render.PreferenceOrDefault(f.Preference),
		Bio:             f.Bio,
		Interactions:    f.Interactions,
		LastContactDays: f.LastContactDays,
		LastContact:     render.LastContactPhrase(f.LastContactDays),
		Connection:      render.ClampPercent(f.Connection),
	}
}

type ListFriendsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (matches name and email)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListFriendsOutput struct {
	Friends []FriendOutput `json:"friends"`
	Count   int            `json:"count"`
}

func (h *FriendHandlers) ListFriends(ctx context.Context, _ *mcp.CallToolRequest, input ListFriendsInput) (*mcp.CallToolResult, ListFriendsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	friends, err := h.gw.ListFriends(ctx)
	if err != nil {
		return nil, ListFriendsOutput{}, fmt.Errorf("failed to list friends: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	result := []FriendOutput{}
	for _, f := range friends {
		if query != "" && !strings.Contains(strings.ToLower(f.Name), query) && !strings.Contains(strings.ToLower(f.Email), query) {
			continue
		}
		result = append(result, friendToOutput(f))
		if len(result) == limit {
			break
		}
	}

	return nil, ListFriendsOutput{Friends: result, Count: len(result)}, nil
}

type AddFriendInput struct {
	Name       string `json:"name" jsonschema:"Friend name (required)"`
	Email      string `json:"email,omitempty" jsonschema:"Email address"`
	Phone      string `json:"phone,omitempty" jsonschema:"Phone number (at least 6 characters)"`
	Preference string `json:"preference,omitempty" jsonschema:"Preferred way to connect (Text/Chat, Phone Call, Video Call, In Person, Email)"`
	Avatar     string `json:"avatar,omitempty" jsonschema:"Avatar image URL"`
	Bio        string `json:"bio,omitempty" jsonschema:"Short bio or notes"`
}

func (h *FriendHandlers) AddFriend(ctx context.Context, _ *mcp.CallToolRequest, input AddFriendInput) (*mcp.CallToolResult, FriendOutput, error) {
	in := models.FriendInput{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Preference: input.Preference,
		Avatar:     input.Avatar,
		Bio:        input.Bio,
	}
	if err := app.ValidateFriend(in); err != nil {
		return nil, FriendOutput{}, err
	}
	in = in.Normalize()

	created, err := h.gw.CreateFriend(ctx, in)
	if err != nil {
		return nil, FriendOutput{}, fmt.Errorf("failed to create friend: %w", err)
	}
	if created == nil {
		// The backend answered without a body; echo what was sent.
		return nil, friendToOutput(models.Friend{Name: in.Name, Email: in.Email, Phone: in.Phone, Preference: in.Preference, Bio: in.Bio}), nil
	}
	return nil, friendToOutput(*created), nil
}

type UpdateFriendInput struct {
	ID         int    `json:"id" jsonschema:"Friend ID (required)"`
	Name       string `json:"name,omitempty" jsonschema:"Updated name"`
	Email      string `json:"email,omitempty" jsonschema:"Updated email address"`
	Phone      string `json:"phone,omitempty" jsonschema:"Updated phone number"`
	Preference string `json:"preference,omitempty" jsonschema:"Updated contact preference"`
	Avatar     string `json:"avatar,omitempty" jsonschema:"Updated avatar URL"`
	Bio        string `json:"bio,omitempty" jsonschema:"Updated bio"`
}

// UpdateFriend merges the given fields over the friend's current values.
// The backend replaces every mutable field, so omitted fields are resent.
func (h *FriendHandlers) UpdateFriend(ctx context.Context, _ *mcp.CallToolRequest, input UpdateFriendInput) (*mcp.CallToolResult, FriendOutput, error) {
	if input.ID <= 0 {
		return nil, FriendOutput{}, fmt.Errorf("id is required")
	}

	current, err := findFriend(ctx, h.gw, input.ID)
	if err != nil {
		return nil, FriendOutput{}, err
	}

	in := current.Input()
	overlay(&in.Name, input.Name)
	overlay(&in.Email, input.Email)
	overlay(&in.Phone, input.Phone)
	overlay(&in.Preference, input.Preference)
	overlay(&in.Avatar, input.Avatar)
	overlay(&in.Bio, input.Bio)

	if err := app.ValidateFriend(in); err != nil {
		return nil, FriendOutput{}, err
	}
	in = in.Normalize()

	updated, err := h.gw.UpdateFriend(ctx, input.ID, in)
	if err != nil {
		return nil, FriendOutput{}, fmt.Errorf("failed to update friend: %w", err)
	}
	if updated == nil {
		merged := current
		merged.Name, merged.Email, merged.Phone = in.Name, in.Email, in.Phone
		merged.Preference, merged.Avatar, merged.Bio = in.Preference, in.Avatar, in.Bio
		return nil, friendToOutput(merged), nil
	}
	return nil, friendToOutput(*updated), nil
}

type DeleteInput struct {
	ID int `json:"id" jsonschema:"ID of the record to delete (required)"`
}

type DeleteOutput struct {
	ID      int    `json:"id"`
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

func (h *FriendHandlers) DeleteFriend(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if input.ID <= 0 {
		return nil, DeleteOutput{}, fmt.Errorf("id is required")
	}
	if err := h.gw.DeleteFriend(ctx, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete friend %d: %w", input.ID, err)
	}
	return nil, DeleteOutput{ID: input.ID, Deleted: true, Message: fmt.Sprintf("Friend %d deleted", input.ID)}, nil
}

func findFriend(ctx context.Context, gw app.Gateway, id int) (models.Friend, error) {
	friends, err := gw.ListFriends(ctx)
	if err != nil {
		return models.Friend{}, fmt.Errorf("failed to list friends: %w", err)
	}
	for _, f := range friends {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Friend{}, fmt.Errorf("friend %d not found", id)
}

func overlay(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = v
	}
}
