// ABOUTME: Dashboard statistics MCP tool handler
// ABOUTME: Implements get_dashboard_stats combining overview counters and weekly activity
package handlers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/friendlog/app"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/render"
)

type StatsHandlers struct {
	gw app.Gateway
}

func NewStatsHandlers(gw app.Gateway) *StatsHandlers {
	return &StatsHandlers{gw: gw}
}

type GetStatsInput struct {
	IncludeWeekly bool `json:"include_weekly,omitempty" jsonschema:"Also return the weekly activity series"`
}

type StatCardOutput struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Subtext string `json:"subtext"`
}

type DayActivity struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type GetStatsOutput struct {
	TotalFriends         int              `json:"total_friends"`
	InteractionsThisWeek int              `json:"interactions_this_week"`
	AvgConnection        int              `json:"avg_connection"`
	NeedAttention        int              `json:"need_attention"`
	Cards                []StatCardOutput `json:"cards"`
	Weekly               []DayActivity    `json:"weekly,omitempty"`
}

func (h *StatsHandlers) GetDashboardStats(ctx context.Context, _ *mcp.CallToolRequest, input GetStatsInput) (*mcp.CallToolResult, GetStatsOutput, error) {
	var (
		stats  models.OverviewStats
		weekly models.WeeklyActivity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := h.gw.OverviewStats(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch stats: %w", err)
		}
		if s != nil {
			stats = *s
		}
		return nil
	})
	if input.IncludeWeekly {
		g.Go(func() error {
			w, err := h.gw.WeeklyActivity(gctx)
			if err != nil {
				return fmt.Errorf("failed to fetch weekly activity: %w", err)
			}
			if w == nil {
				return nil
			}
			if err := w.Validate(); err != nil {
				return fmt.Errorf("invalid weekly activity: %w", err)
			}
			weekly = *w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, GetStatsOutput{}, err
	}

	out := GetStatsOutput{
		TotalFriends:         stats.TotalFriends,
		InteractionsThisWeek: stats.InteractionsThisWeek,
		AvgConnection:        render.ClampPercent(stats.AvgConnection),
		NeedAttention:        stats.NeedAttention,
	}
	for _, c := range render.StatCards(stats) {
		out.Cards = append(out.Cards, StatCardOutput{Label: c.Label, Value: c.Value, Subtext: c.Subtext})
	}
	for i, label := range weekly.Labels {
		out.Weekly = append(out.Weekly, DayActivity{Label: label, Count: weekly.Data[i]})
	}
	return nil, out, nil
}
