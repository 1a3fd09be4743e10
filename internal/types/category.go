package types

import "strings"

// RecipeCategories is the controlled vocabulary a recipe may be tagged with
var RecipeCategories = []string{
	"Entrada",
	"Prato Principal",
	"Sobremesa",
	"Bebida",
	"Café da Manhã",
	"Almoço",
	"Jantar",
	"Lanche",
	"Vegetariano",
	"Vegano",
	"Sem Glúten",
	"Sem Lactose",
	"Fitness",
	"Low Carb",
	"Carne",
	"Frutos do Mar",
	"Sopa",
	"Salada",
	"Outro",
}

// IsValidCategory reports whether name belongs to the vocabulary
func IsValidCategory(name string) bool {
	for _, c := range RecipeCategories {
		if c == name {
			return true
		}
	}
	return false
}

// NormalizeCategories trims entries and removes blanks and duplicates,
// keeping first-seen order. Returns nil when nothing is left.
func NormalizeCategories(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
