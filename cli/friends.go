// ABOUTME: Friend CLI commands
// ABOUTME: Human-friendly commands for listing, adding, updating, and deleting friends
package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harperreed/friendlog/handlers"
)

func newFriendsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friends",
		Aliases: []string{"friend", "f"},
		Short:   "Manage friends",
	}
	cmd.AddCommand(
		newListFriendsCommand(rt),
		newAddFriendCommand(rt),
		newUpdateFriendCommand(rt),
		newDeleteFriendCommand(rt),
	)
	return cmd
}

func newListFriendsCommand(rt *runtime) *cobra.Command {
	var input handlers.ListFriendsInput
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List friends",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, out, err := handlers.NewFriendHandlers(rt.gw).ListFriends(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			if out.Count == 0 {
				rt.printf("No friends found\n")
				return nil
			}

			w := tabwriter.NewWriter(rt.out(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPREFERS\tLAST CONTACT\tCONNECTION")
			_, _ = fmt.Fprintln(w, "--\t----\t-----\t-------\t------------\t----------")
			for _, f := range out.Friends {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d%%\n",
					f.ID, f.Name, orDash(f.Email), f.Preference, f.LastContact, f.Connection)
			}
			_ = w.Flush()
			rt.printf("\n%d friend(s)\n", out.Count)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input.Query, "query", "q", "", "Search by name or email")
	cmd.Flags().IntVar(&input.Limit, "limit", 50, "Maximum results")
	return cmd
}

func newAddFriendCommand(rt *runtime) *cobra.Command {
	var input handlers.AddFriendInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a friend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, f, err := handlers.NewFriendHandlers(rt.gw).AddFriend(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			printFriend(rt, "✓ Friend added", f)
			return nil
		},
	}
	addFriendFlags(cmd, &input.Name, &input.Email, &input.Phone, &input.Preference, &input.Avatar, &input.Bio)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUpdateFriendCommand(rt *runtime) *cobra.Command {
	var input handlers.UpdateFriendInput
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a friend; flags you leave out keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input.ID = id
			_, f, err := handlers.NewFriendHandlers(rt.gw).UpdateFriend(cmd.Context(), nil, input)
			if err != nil {
				return err
			}
			printFriend(rt, "✓ Friend updated", f)
			return nil
		},
	}
	addFriendFlags(cmd, &input.Name, &input.Email, &input.Phone, &input.Preference, &input.Avatar, &input.Bio)
	return cmd
}

func newDeleteFriendCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a friend and their interaction history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, out, err := handlers.NewFriendHandlers(rt.gw).DeleteFriend(cmd.Context(), nil, handlers.DeleteInput{ID: id})
			if err != nil {
				return err
			}
			rt.printf("✓ %s\n", out.Message)
			return nil
		},
	}
}

func addFriendFlags(cmd *cobra.Command, name, email, phone, preference, avatar, bio *string) {
	cmd.Flags().StringVar(name, "name", "", "Friend name")
	cmd.Flags().StringVar(email, "email", "", "Email address")
	cmd.Flags().StringVar(phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(preference, "preference", "", "Preferred way to connect (Text/Chat, Phone Call, Video Call, In Person, Email)")
	cmd.Flags().StringVar(avatar, "avatar", "", "Avatar image URL")
	cmd.Flags().StringVar(bio, "bio", "", "Short bio or notes")
}

func printFriend(rt *runtime, heading string, f handlers.FriendOutput) {
	rt.printf("%s: %s (ID: %d)\n", heading, f.Name, f.ID)
	if f.Email != "" {
		rt.printf("  Email: %s\n", f.Email)
	}
	if f.Phone != "" {
		rt.printf("  Phone: %s\n", f.Phone)
	}
	rt.printf("  Prefers: %s\n", f.Preference)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
