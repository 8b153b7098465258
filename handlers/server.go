// ABOUTME: MCP server assembly
// ABOUTME: Registers friend log tools, resources, and prompts on one server
package handlers

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
)

// NewServer builds an MCP server backed by gw.
func NewServer(gw app.Gateway, version string) *mcp.Server {
	friendHandlers := NewFriendHandlers(gw)
	interactionHandlers := NewInteractionHandlers(gw)
	statsHandlers := NewStatsHandlers(gw)
	resourceHandlers := NewResourceHandlers(gw)
	promptHandlers := NewPromptHandlers(gw)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "friendlog",
		Version: version,
	}, nil)

	// Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_friends",
		Description: "List friends, optionally filtered by name or email",
	}, friendHandlers.ListFriends)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_friend",
		Description: "Add a new friend",
	}, friendHandlers.AddFriend)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_friend",
		Description: "Update a friend's details; omitted fields keep their current value",
	}, friendHandlers.UpdateFriend)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_friend",
		Description: "Delete a friend and their interaction history",
	}, friendHandlers.DeleteFriend)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_interactions",
		Description: "List logged interactions, newest first",
	}, interactionHandlers.ListInteractions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Log a meetup, call, video chat, or text with a friend",
	}, interactionHandlers.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_interaction",
		Description: "Delete a logged interaction",
	}, interactionHandlers.DeleteInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_dashboard_stats",
		Description: "Get overview counters and optionally the weekly activity series",
	}, statsHandlers.GetDashboardStats)

	// Resources
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "friends",
		Name:        "friends",
		Description: "All friends",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "friends/{id}",
		Name:        "friend",
		Description: "One friend with their interaction history",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "interactions",
		Name:        "interactions",
		Description: "All logged interactions",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "stats",
		Name:        "stats",
		Description: "Dashboard counters and weekly activity",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "friend-summary",
		Description: "Summarize a friendship from its interaction history",
		Arguments: []*mcp.PromptArgument{
			{Name: "friend_id", Description: "Friend ID", Required: true},
		},
	}, promptHandlers.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "reconnect-suggestions",
		Description: "Suggest ways to reconnect with friends you haven't contacted lately",
		Arguments: []*mcp.PromptArgument{
			{Name: "days", Description: "Minimum days since last contact (default 14)"},
		},
	}, promptHandlers.GetPrompt)

	return server
}
