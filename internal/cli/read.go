package cli

import (
	"github.com/spf13/cobra"

	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Search     string
	Categories []string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recipes, optionally searched and filtered",
		Long: `List recipes, newest first.

--search matches the name or any ingredient, ignoring case. Each --category
keeps recipes tagged with at least one of the given categories.

Example:
  recipectl list --search banana --category Bebida --category Lanche`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			recipes := store.SearchAndFilter(opts.Search, opts.Categories)
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), recipes)
			}
			return writeRecipeTable(cmd.OutOrStdout(), recipes)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "match name or ingredients")
	cmd.Flags().StringSliceVar(&opts.Categories, "category", nil, "keep recipes in any of these categories")

	return cmd
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show one recipe with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			recipe, ok := store.Get(args[0])
			if !ok {
				return notFound(args[0])
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), recipe)
			}
			return writeRecipeDetail(cmd.OutOrStdout(), recipe)
		},
	}
}

func notFound(id string) error {
	return apperrors.NewRecipeNotFoundError(id)
}
