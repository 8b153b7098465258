// ABOUTME: Stats CLI command
// ABOUTME: Prints the dashboard counters and a text bar chart of weekly activity
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harperreed/friendlog/handlers"
	"github.com/harperreed/friendlog/models"
	"github.com/harperreed/friendlog/tui"
)

func newStatsCommand(rt *runtime) *cobra.Command {
	var noChart bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, out, err := handlers.NewStatsHandlers(rt.gw).GetDashboardStats(cmd.Context(), nil, handlers.GetStatsInput{IncludeWeekly: !noChart})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(rt.out(), 0, 0, 2, ' ', 0)
			for _, c := range out.Cards {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", c.Label, c.Value, c.Subtext)
			}
			_ = w.Flush()

			if noChart {
				return nil
			}
			activity := models.WeeklyActivity{Labels: []string{}, Data: []int{}}
			for _, d := range out.Weekly {
				activity.Labels = append(activity.Labels, d.Label)
				activity.Data = append(activity.Data, d.Count)
			}
			chart, err := tui.NewRenderer().WeeklyChart(activity)
			if err != nil {
				return err
			}
			rt.printf("\nWEEKLY ACTIVITY\n%s", chart)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noChart, "no-chart", false, "Skip the weekly activity chart")
	return cmd
}
