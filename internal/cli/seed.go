package cli

import (
	"context"
	"fmt"

	"docum/internal/app"
	"docum/internal/seed"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var reset bool

	cmd := leafCommand(&cobra.Command{
		Use:   "seed",
		Short: "Create a demo user with a sample tree",
		Long: `Create a demo user with nested folders, versioned documents and
keywords. With --reset, the user and activity collections are dropped first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				if reset {
					// Destructive operations are blocked in production
					if a.Config.Environment == "prod" {
						return fmt.Errorf("refusing to reset the %s store in prod", a.Config.StoreDriver)
					}
					out.VerboseLog("dropping collections (prefix %q)", a.Config.TablePrefix)
					if err := a.Reset(ctx); err != nil {
						return err
					}
				}

				seeder := seed.NewSeeder(seed.Services{
					Users:     a.UserService,
					Folders:   a.FolderService,
					Documents: a.DocumentService,
				}, a.Logger)
				result, err := seeder.Seed(ctx)
				if err != nil {
					return err
				}

				text, err := a.TreeService.Render(ctx, result.User.ID)
				if err != nil {
					return err
				}
				return out.Success(result, fmt.Sprintf("Seeded user %s (%s)\n%s", result.User.UserName, result.User.ID, text))
			})
		},
	})

	cmd.Flags().BoolVar(&reset, "reset", false, "drop existing data before seeding")
	return cmd
}
