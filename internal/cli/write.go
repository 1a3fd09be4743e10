package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// RecipeFlags holds the recipe fields shared by add and update.
type RecipeFlags struct {
	Name        string
	Ingredients []string
	Steps       []string
	ImageURL    string
	VideoURL    string
	Calories    float64
	Protein     float64
	Fat         float64
	Carbs       float64
	Categories  []string
}

func (f *RecipeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.Name, "name", "", "recipe name")
	fs.StringArrayVar(&f.Ingredients, "ingredient", nil, "ingredient line, repeatable")
	fs.StringArrayVar(&f.Steps, "step", nil, "preparation step, repeatable")
	fs.StringVar(&f.ImageURL, "image", "", "image URL, empty clears it")
	fs.StringVar(&f.VideoURL, "video", "", "video URL, empty clears it")
	fs.Float64Var(&f.Calories, "calories", 0, "kcal")
	fs.Float64Var(&f.Protein, "protein", 0, "protein in grams")
	fs.Float64Var(&f.Fat, "fat", 0, "fat in grams")
	fs.Float64Var(&f.Carbs, "carbs", 0, "carbohydrates in grams")
	fs.StringArrayVar(&f.Categories, "category", nil, "category, repeatable")
}

func nutritionChanged(fs *pflag.FlagSet) bool {
	return fs.Changed("calories") || fs.Changed("protein") || fs.Changed("fat") || fs.Changed("carbs")
}

// mergeNutrition overrides base with the nutrition flags actually given
func (f *RecipeFlags) mergeNutrition(fs *pflag.FlagSet, base types.Nutrition) types.Nutrition {
	if fs.Changed("calories") {
		base.Calories = f.Calories
	}
	if fs.Changed("protein") {
		base.Protein = f.Protein
	}
	if fs.Changed("fat") {
		base.Fat = f.Fat
	}
	if fs.Changed("carbs") {
		base.Carbs = f.Carbs
	}
	return base
}

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	RecipeFlags
	FromFile string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a recipe",
		Long: `Create a recipe from flags, a JSON file, or both. Flags override the
file's fields.

Example:
  recipectl add --name Omelete --ingredient "2 eggs" --ingredient salt \
    --step "Bata os ovos" --step Frite --calories 200 --protein 12 --fat 15 --carbs 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := opts.draft(cmd.Flags())
			if err != nil {
				return err
			}
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			recipe, err := store.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}
			return printRecipe(cmd, opts.RootOptions, recipe)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVarP(&opts.FromFile, "from-file", "f", "", "read the recipe from a JSON file")

	return cmd
}

func (o *AddOptions) draft(fs *pflag.FlagSet) (types.RecipeDraft, error) {
	var draft types.RecipeDraft
	if o.FromFile != "" {
		data, err := os.ReadFile(o.FromFile)
		if err != nil {
			return draft, fmt.Errorf("failed to read %s: %w", o.FromFile, err)
		}
		if err := json.Unmarshal(data, &draft); err != nil {
			return draft, fmt.Errorf("invalid recipe JSON in %s: %w", o.FromFile, err)
		}
	}

	if fs.Changed("name") {
		draft.Name = o.Name
	}
	if fs.Changed("ingredient") {
		draft.Ingredients = o.Ingredients
	}
	if fs.Changed("step") {
		draft.Steps = o.Steps
	}
	if fs.Changed("image") {
		draft.ImageURL = types.StringPtr(o.ImageURL)
	}
	if fs.Changed("video") {
		draft.VideoURL = types.StringPtr(o.VideoURL)
	}
	if fs.Changed("category") {
		draft.Categories = o.Categories
	}
	draft.Nutrition = o.mergeNutrition(fs, draft.Nutrition)
	return draft, nil
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	RecipeFlags
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <recipe-id>",
		Short: "Change fields of a recipe",
		Long: `Change only the fields given as flags. Repeated flags such as
--ingredient replace the whole list. Nutrition flags not given keep their
current values.

Example:
  recipectl update 3f2c... --name "Omelete de Queijo" --calories 250`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			current, ok := store.Get(args[0])
			if !ok {
				return notFound(args[0])
			}

			patch := opts.patch(cmd.Flags(), current)
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}
			recipe, err := store.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return printRecipe(cmd, opts.RootOptions, recipe)
		},
	}

	opts.register(cmd.Flags())

	return cmd
}

func (o *UpdateOptions) patch(fs *pflag.FlagSet, current types.Recipe) types.RecipePatch {
	var patch types.RecipePatch
	if fs.Changed("name") {
		patch.Name = types.StringPtr(o.Name)
	}
	if fs.Changed("ingredient") {
		items := o.Ingredients
		patch.Ingredients = &items
	}
	if fs.Changed("step") {
		steps := o.Steps
		patch.Steps = &steps
	}
	if fs.Changed("image") {
		patch.ImageURL = types.StringPtr(o.ImageURL)
	}
	if fs.Changed("video") {
		patch.VideoURL = types.StringPtr(o.VideoURL)
	}
	if fs.Changed("category") {
		categories := o.Categories
		patch.Categories = &categories
	}
	if nutritionChanged(fs) {
		n := o.mergeNutrition(fs, current.Nutrition)
		patch.Nutrition = &n
	}
	return patch
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <recipe-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe and its comments",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := store.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), types.MessageResponse{Message: "Recipe deleted successfully", ID: args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

// CommentOptions holds flags for the comment command.
type CommentOptions struct {
	*RootOptions
	Rating int
}

// NewCommentCommand creates the comment command.
func NewCommentCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CommentOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "comment <recipe-id> <text>",
		Short: "Rate a recipe with a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			comment, err := store.AddComment(cmd.Context(), args[0], args[1], opts.Rating)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), comment)
			}
			recipe, _ := store.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Comment %s added, average rating %.1f\n", comment.ID, recipe.AvgRating)
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Rating, "rating", "r", 0, "rating from 1 to 5")
	_ = cmd.MarkFlagRequired("rating")

	return cmd
}

// UploadOptions holds flags for the upload command.
type UploadOptions struct {
	*RootOptions
	Attach string
}

// NewUploadCommand creates the upload command.
func NewUploadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UploadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "upload <image-file>",
		Short: "Upload a recipe image",
		Long: `Upload a png, jpg, jpeg or gif image and print its public URL.
With --attach the URL becomes the image of that recipe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			url, err := opts.repository().Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}

			if opts.Attach != "" {
				store, err := opts.openStore(cmd.Context(), cmd)
				if err != nil {
					return err
				}
				if _, err := store.Update(cmd.Context(), opts.Attach, types.RecipePatch{ImageURL: &url}); err != nil {
					return err
				}
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), types.UploadResponse{URL: url})
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Attach, "attach", "", "recipe id to set the image on")

	return cmd
}

func printRecipe(cmd *cobra.Command, opts *RootOptions, recipe types.Recipe) error {
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), recipe)
	}
	return writeRecipeDetail(cmd.OutOrStdout(), recipe)
}
