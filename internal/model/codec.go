package model

import (
	"strings"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// DecodeRecipe converts a storage row into a domain recipe. It never fails;
// damaged columns degrade to their zero values. Comments are attached by the
// caller.
func DecodeRecipe(row RecipeRow) types.Recipe {
	r := types.Recipe{
		ID:          row.ID,
		Name:        row.Name,
		Ingredients: listOrEmpty(row.Ingredients),
		Steps:       listOrEmpty(row.Steps),
		ImageURL:    types.OptionalString(row.ImageURL),
		VideoURL:    types.OptionalString(row.VideoURL),
		Nutrition: types.Nutrition{
			Calories: types.CoerceNumber(float64(row.Calories)),
			Protein:  types.CoerceNumber(float64(row.Protein)),
			Fat:      types.CoerceNumber(float64(row.Fat)),
			Carbs:    types.CoerceNumber(float64(row.Carbs)),
		},
		CreatedAt: types.ToMillis(row.CreatedAt),
		UpdatedAt: types.ToMillis(row.UpdatedAt),
	}
	if len(row.Categories) > 0 {
		r.Categories = []string(row.Categories)
	}
	return r
}

// EncodeRecipe converts a domain recipe into its storage row. Absent or blank
// URLs become NULL.
func EncodeRecipe(r types.Recipe) RecipeRow {
	return RecipeRow{
		ID:          r.ID,
		Name:        strings.TrimSpace(r.Name),
		Ingredients: JSONList(types.CleanList(r.Ingredients)),
		Steps:       JSONList(types.CleanList(r.Steps)),
		ImageURL:    types.OptionalString(r.ImageURL),
		VideoURL:    types.OptionalString(r.VideoURL),
		Calories:    Number(r.Nutrition.Calories),
		Protein:     Number(r.Nutrition.Protein),
		Fat:         Number(r.Nutrition.Fat),
		Carbs:       Number(r.Nutrition.Carbs),
		Categories:  JSONList(types.NormalizeCategories(r.Categories)),
		CreatedAt:   types.FromMillis(r.CreatedAt),
		UpdatedAt:   types.FromMillis(r.UpdatedAt),
	}
}

// DecodeComment converts a storage row into a domain comment
func DecodeComment(row CommentRow) types.Comment {
	return types.Comment{
		ID:        row.ID,
		RecipeID:  row.RecipeID,
		Text:      row.Text,
		Rating:    row.Rating,
		CreatedAt: types.ToMillis(row.CreatedAt),
		UpdatedAt: types.ToMillis(row.UpdatedAt),
	}
}

// EncodeComment converts a domain comment into its storage row
func EncodeComment(c types.Comment) CommentRow {
	return CommentRow{
		ID:        c.ID,
		RecipeID:  c.RecipeID,
		Text:      strings.TrimSpace(c.Text),
		Rating:    c.Rating,
		CreatedAt: types.FromMillis(c.CreatedAt),
		UpdatedAt: types.FromMillis(c.UpdatedAt),
	}
}

// DecodeComments decodes rows preserving their order
func DecodeComments(rows []CommentRow) []types.Comment {
	out := make([]types.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, DecodeComment(row))
	}
	return out
}

func listOrEmpty(l JSONList) []string {
	if l == nil {
		return []string{}
	}
	return append([]string{}, l...)
}
