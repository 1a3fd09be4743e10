package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pageza/nutrifit/backend/internal/types"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeRecipeTable(w io.Writer, recipes []types.Recipe) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRATING\tKCAL\tCATEGORIES")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\t%s\n",
			r.ID, r.Name, formatRating(r), r.Nutrition.Calories, strings.Join(r.Categories, ", "))
	}
	return tw.Flush()
}

func writeRecipeDetail(w io.Writer, r types.Recipe) error {
	fmt.Fprintf(w, "%s (%s)\n", r.Name, r.ID)
	if len(r.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(r.Categories, ", "))
	}
	fmt.Fprintf(w, "Nutrition: %.0f kcal, %.1fg protein, %.1fg fat, %.1fg carbs\n",
		r.Nutrition.Calories, r.Nutrition.Protein, r.Nutrition.Fat, r.Nutrition.Carbs)
	if r.ImageURL != nil {
		fmt.Fprintf(w, "Image: %s\n", *r.ImageURL)
	}
	if r.VideoURL != nil {
		fmt.Fprintf(w, "Video: %s\n", *r.VideoURL)
	}
	fmt.Fprintf(w, "Updated: %s\n", types.FromMillis(r.UpdatedAt).Format(time.RFC3339))

	fmt.Fprintln(w, "\nIngredients:")
	for _, item := range r.Ingredients {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintln(w, "\nSteps:")
	for i, step := range r.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}

	fmt.Fprintf(w, "\nComments (%d, average %s):\n", len(r.Comments), formatRating(r))
	for _, c := range r.Comments {
		fmt.Fprintf(w, "  [%d/5] %s\n", c.Rating, c.Text)
	}
	return nil
}

func formatRating(r types.Recipe) string {
	if len(r.Comments) == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", r.AvgRating)
}
