package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docum/internal/app"
	models "docum/internal/domain/models/docsystem"
	docsysSvc "docum/internal/domain/services/docsystem"

	"github.com/spf13/cobra"
)

// NewDocumentCommand creates the document command group.
func NewDocumentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Manage documents",
	}

	cmd.AddCommand(newDocumentAddCommand(rootOpts))
	cmd.AddCommand(newDocumentUpdateCommand(rootOpts))
	cmd.AddCommand(newDocumentImportCommand(rootOpts))
	cmd.AddCommand(newDocumentShowCommand(rootOpts))
	cmd.AddCommand(newDocumentGrantCommand(rootOpts))
	cmd.AddCommand(newDocumentKeywordsCommand(rootOpts))
	return cmd
}

func newDocumentAddCommand(rootOpts *RootOptions) *cobra.Command {
	var folderID string

	cmd := leafCommand(&cobra.Command{
		Use:   "add <user-id>",
		Short: "Add an empty document (to the root unless --folder is set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				d, err := a.FolderService.AddDocument(ctx, &docsysSvc.AddDocumentRequest{
					UserID:   args[0],
					FolderID: folderID,
				})
				if err != nil {
					return err
				}
				return out.Success(d, fmt.Sprintf("Created document %s", d.ID))
			})
		},
	})

	cmd.Flags().StringVar(&folderID, "folder", "", "folder id (default: root)")
	return cmd
}

func newDocumentUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name        string
		content     string
		contentFile string
	)

	cmd := leafCommand(&cobra.Command{
		Use:   "update <user-id> <document-id>",
		Short: "Replace a document's content and bump its version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := content
			if contentFile != "" {
				data, err := readContent(cmd, contentFile)
				if err != nil {
					return WrapExitError(ExitCommandError, "read content", err)
				}
				body = data
			}

			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				d, err := a.DocumentService.UpdateDocument(ctx, args[0], &models.Document{
					ID:      args[1],
					Name:    name,
					Content: body,
				})
				if err != nil {
					return err
				}
				return out.Success(d, fmt.Sprintf("Updated document %s to v%s", d.ID, d.Version))
			})
		},
	})

	cmd.Flags().StringVar(&name, "name", "", "new document name")
	cmd.Flags().StringVar(&content, "content", "", "new content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read content from a file (- for stdin)")
	return cmd
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func newDocumentImportCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "import <user-id> <document-id> <file>",
		Short: "Replace a document's content with a markdown, text or HTML file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[2])
			if err != nil {
				return WrapExitError(ExitCommandError, "read file", err)
			}

			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				d, err := a.DocumentService.ImportContent(ctx, args[0], args[1], filepath.Base(args[2]), data)
				if err != nil {
					return err
				}
				return out.Success(d, fmt.Sprintf("Imported %s into %s (v%s)", filepath.Base(args[2]), d.ID, d.Version))
			})
		},
	})
}

func newDocumentShowCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "show <user-id> <document-id>",
		Short: "Show a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				d, err := a.DocumentService.GetDocument(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				text := fmt.Sprintf("%s  %s  v%s\n%s", d.ID, d.Name, d.Version, d.Content)
				return out.Success(d, text)
			})
		},
	})
}

func newDocumentGrantCommand(rootOpts *RootOptions) *cobra.Command {
	var access string

	cmd := leafCommand(&cobra.Command{
		Use:   "grant <user-id> <document-id> <grantee-id>",
		Short: "Give another user access to a document",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				accessType, err := models.ParseAccessType(access)
				if err != nil {
					return err
				}
				d, err := a.DocumentService.GrantAccess(ctx, args[0], args[1], models.AccessGrant{
					UserID: args[2],
					Access: accessType,
				})
				if err != nil {
					return err
				}
				return out.Success(d, fmt.Sprintf("Granted %s on %s to %s", accessType, d.ID, args[2]))
			})
		},
	})

	cmd.Flags().StringVar(&access, "access", "read", "access type (read|write|read_write)")
	return cmd
}

func newDocumentKeywordsCommand(rootOpts *RootOptions) *cobra.Command {
	return leafCommand(&cobra.Command{
		Use:   "keywords <user-id> <document-id> [keyword...]",
		Short: "Replace a document's keywords",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app.App, out *OutputFormatter) error {
				d, err := a.DocumentService.SetKeywords(ctx, args[0], args[1], args[2:])
				if err != nil {
					return err
				}
				return out.Success(d, "Keywords: "+strings.Join(d.Keywords, ", "))
			})
		},
	})
}
