package cli

import (
	"context"
	"fmt"
	"strings"

	"docum/internal/app"

	"github.com/spf13/cobra"
)

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "tree <user-id>",
		Short: "Print a user's folder tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				root, err := a.TreeService.GetTree(ctx, args[0])
				if err != nil {
					return err
				}
				text, err := a.TreeService.Render(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(root, text)
			})
		},
	})
}

// NewActivityCommand creates the activity command.
func NewActivityCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "activity <user-id>",
		Short: "List a user's activity log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				entries, err := a.ActivityService.ListForUser(ctx, args[0])
				if err != nil {
					return err
				}
				lines := make([]string, 0, len(entries))
				for _, e := range entries {
					lines = append(lines, fmt.Sprintf("%s  %-24s %s",
						e.LogTime.Format("2006-01-02 15:04:05"), e.Type, e.Content))
				}
				if len(lines) == 0 {
					lines = append(lines, "No activity")
				}
				return out.Success(entries, strings.Join(lines, "\n"))
			})
		},
	})
}
