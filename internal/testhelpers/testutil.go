package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// OmeleteDraft is the canonical create payload used across tests
func OmeleteDraft() types.RecipeDraft {
	return types.RecipeDraft{
		Name:        "Omelete",
		Ingredients: []string{"2 eggs", "salt"},
		Steps:       []string{"Bata os ovos", "Frite"},
		Nutrition:   types.Nutrition{Calories: 200, Protein: 12, Fat: 15, Carbs: 1},
	}
}

// FakeDraft builds a random but valid recipe draft from a seeded faker
func FakeDraft(f *gofakeit.Faker) types.RecipeDraft {
	ingredients := make([]string, f.IntRange(2, 6))
	for i := range ingredients {
		if i%2 == 0 {
			ingredients[i] = f.Vegetable()
		} else {
			ingredients[i] = f.Fruit()
		}
	}
	steps := make([]string, f.IntRange(1, 4))
	for i := range steps {
		steps[i] = f.Sentence(6)
	}

	return types.RecipeDraft{
		Name:        f.Dinner(),
		Ingredients: ingredients,
		Steps:       steps,
		Nutrition: types.Nutrition{
			Calories: float64(f.IntRange(50, 900)),
			Protein:  float64(f.IntRange(0, 60)),
			Fat:      float64(f.IntRange(0, 50)),
			Carbs:    float64(f.IntRange(0, 120)),
		},
		Categories: []string{types.RecipeCategories[f.IntRange(0, len(types.RecipeCategories)-1)]},
	}
}

// JSONMarshal is a helper function to marshal JSON for testing
func JSONMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return data
}
