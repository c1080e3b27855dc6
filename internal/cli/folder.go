package cli

import (
	"context"
	"fmt"

	"docum/internal/app"
	docsysSvc "docum/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

// NewFolderCommand creates the folder command group.
func NewFolderCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders in a user's tree",
	}

	cmd.AddCommand(newFolderAddCommand(rootOpts))
	cmd.AddCommand(newFolderRenameCommand(rootOpts))
	return cmd
}

func newFolderAddCommand(rootOpts *RootOptions) *cobra.Command {
	var parentID string

	cmd := leafCommand(&cobra.Command{
		Use:   "add <user-id> <name>",
		Short: "Add a folder (under the root unless --parent is set)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				f, err := a.FolderService.AddFolder(ctx, &docsysSvc.AddFolderRequest{
					UserID:   args[0],
					Name:     args[1],
					ParentID: parentID,
				})
				if err != nil {
					return err
				}
				return out.Success(f, fmt.Sprintf("Created folder %s (%s)", f.Name, f.ID))
			})
		},
	})

	cmd.Flags().StringVar(&parentID, "parent", "", "parent folder id (default: root)")
	return cmd
}

func newFolderRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "rename <user-id> <folder-id> <name>",
		Short: "Rename a folder anywhere in the tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				f, err := a.FolderService.RenameFolder(ctx, &docsysSvc.RenameFolderRequest{
					UserID:   args[0],
					FolderID: args[1],
					Name:     args[2],
				})
				if err != nil {
					return err
				}
				return out.Success(f, fmt.Sprintf("Renamed folder %s to %s", f.ID, f.Name))
			})
		},
	})
}
