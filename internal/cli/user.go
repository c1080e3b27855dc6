package cli

import (
	"context"
	"fmt"
	"strings"

	"docum/internal/app"
	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserCreateCommand(rootOpts))
	cmd.AddCommand(newUserShowCommand(rootOpts))
	cmd.AddCommand(newUserDeleteCommand(rootOpts))
	cmd.AddCommand(newUserListCommand(rootOpts))
	return cmd
}

func newUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var req docsysSvc.CreateUserRequest

	cmd := leafCommand(&cobra.Command{
		Use:   "create",
		Short: "Create a user with an empty root folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				u, err := a.UserService.CreateUser(ctx, &req)
				if err != nil {
					return err
				}
				out.VerboseLog("root folder %s", u.RootFolder.ID)
				return out.Success(u, fmt.Sprintf("Created user %s (%s)", u.UserName, u.ID))
			})
		},
	})

	cmd.Flags().StringVar(&req.UserName, "user-name", "", "unique user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "unique email address")
	cmd.Flags().StringVar(&req.Name, "name", "", "first name")
	cmd.Flags().StringVar(&req.Surname, "surname", "", "surname (unique together with name)")
	return cmd
}

func newUserShowCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				u, err := a.UserService.GetUser(ctx, args[0])
				if err != nil {
					return err
				}
				return out.Success(u, formatUser(u))
			})
		},
	})
}

func newUserDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "delete <user-id>",
		Short: "Soft-delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if err := a.UserService.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				return out.Success(map[string]string{"id": args[0]}, "Deleted user "+args[0])
			})
		},
	})
}

func newUserListCommand(rootOpts *RootOptions) *cobra.Command {
	var includeDeleted bool

	cmd := leafCommand(&cobra.Command{
		Use:   "list",
		Short: "List users in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				users, err := a.UserService.ListUsers(ctx, includeDeleted)
				if err != nil {
					return err
				}
				lines := make([]string, 0, len(users))
				for _, u := range users {
					lines = append(lines, formatUser(u))
				}
				if len(lines) == 0 {
					lines = append(lines, "No users")
				}
				return out.Success(users, strings.Join(lines, "\n"))
			})
		},
	})

	cmd.Flags().BoolVar(&includeDeleted, "all", false, "include soft-deleted users")
	return cmd
}

func formatUser(u *models.User) string {
	line := fmt.Sprintf("%s  %s  %s %s <%s>", u.ID, u.UserName, u.Name, u.Surname, u.Email)
	if u.IsDeleted {
		line += "  (deleted)"
	}
	return line
}
