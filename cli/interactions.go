// ABOUTME: Interaction CLI commands
// ABOUTME: Lists, logs, and deletes meetups, calls, video chats, and texts
package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harperreed/friendlog/handlers"
)

func newInteractionsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "interactions",
		Aliases: []string{"interaction", "i"},
		Short:   "Manage logged interactions",
	}
	cmd.AddCommand(
		newListInteractionsCommand(rt),
		newLogInteractionCommand(rt),
		newDeleteInteractionCommand(rt),
	)
	return cmd
}

func newListInteractionsCommand(rt *runtime) *cobra.Command {
	var input handlers.ListInteractionsInput
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List interactions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, out, err := handlers.NewInteractionHandlers(rt.gw).ListInteractions(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			if out.Count == 0 {
				rt.printf("No interactions found\n")
				return nil
			}

			w := tabwriter.NewWriter(rt.out(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tFRIEND\tTYPE\tWHEN\tNOTES")
			_, _ = fmt.Fprintln(w, "--\t------\t----\t----\t-----")
			for _, in := range out.Interactions {
				notes := in.Notes
				if len(notes) > 40 {
					notes = notes[:37] + "..."
				}
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					in.ID, in.FriendName, in.Type, orDash(in.OccurredAt), orDash(notes))
			}
			_ = w.Flush()
			return nil
		},
	}
	cmd.Flags().IntVar(&input.FriendID, "friend", 0, "Only interactions with this friend ID")
	cmd.Flags().StringVar(&input.Type, "type", "", "Only this type (meetup, call, video, text)")
	cmd.Flags().IntVar(&input.Limit, "limit", 50, "Maximum results")
	return cmd
}

func newLogInteractionCommand(rt *runtime) *cobra.Command {
	var input handlers.LogInteractionInput
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log an interaction with a friend",
		Example: `  friendlog interactions log --friend 3 --type call --notes "caught up about the move"
  friendlog interactions log --friend 3 --type meetup --at 2024-05-01T19:00:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, out, err := handlers.NewInteractionHandlers(rt.gw).LogInteraction(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			rt.printf("✓ Logged a %s with %s\n", strings.ToLower(out.Type), out.FriendName)
			if out.Notes != "" {
				rt.printf("  Notes: %s\n", out.Notes)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&input.FriendID, "friend", 0, "Friend ID")
	cmd.Flags().StringVar(&input.Type, "type", "", "Interaction type (meetup, call, video, text)")
	cmd.Flags().StringVar(&input.Notes, "notes", "", "What you talked about")
	cmd.Flags().StringVar(&input.OccurredAt, "at", "", "When it happened, ISO-8601 (default now)")
	_ = cmd.MarkFlagRequired("friend")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newDeleteInteractionCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a logged interaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, out, err := handlers.NewInteractionHandlers(rt.gw).DeleteInteraction(cmd.Context(), nil, handlers.DeleteInput{ID: id})
			if err != nil {
				return err
			}
			rt.printf("✓ %s\n", out.Message)
			return nil
		},
	}
}
