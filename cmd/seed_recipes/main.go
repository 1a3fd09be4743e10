package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/pageza/nutrifit/backend/config"
	"github.com/pageza/nutrifit/backend/internal/database"
	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/types"
	"github.com/pageza/nutrifit/backend/pkg/logger"
)

type seedRecipe struct {
	draft    types.RecipeDraft
	comments []types.CreateCommentRequest
}

var baseRecipes = []seedRecipe{
	{
		draft: types.RecipeDraft{
			Name:        "Omelete",
			Ingredients: []string{"2 ovos", "sal", "1 colher de manteiga"},
			Steps:       []string{"Bata os ovos com o sal", "Derreta a manteiga na frigideira", "Frite até dourar"},
			Nutrition:   types.Nutrition{Calories: 200, Protein: 12, Fat: 15, Carbs: 1},
			Categories:  []string{"Café da Manhã", "Low Carb"},
		},
		comments: []types.CreateCommentRequest{
			{Text: "Simples e rápido", Rating: 5},
			{Text: "Ficou um pouco salgado", Rating: 3},
		},
	},
	{
		draft: types.RecipeDraft{
			Name:        "Pão de Queijo",
			Ingredients: []string{"500g de polvilho azedo", "250ml de leite", "2 ovos", "200g de queijo minas", "100ml de óleo"},
			Steps:       []string{"Ferva o leite com o óleo", "Escalde o polvilho", "Misture os ovos e o queijo", "Asse a 180 graus por 25 minutos"},
			Nutrition:   types.Nutrition{Calories: 320, Protein: 8, Fat: 14, Carbs: 40},
			Categories:  []string{"Lanche", "Vegetariano", "Sem Glúten"},
		},
		comments: []types.CreateCommentRequest{
			{Text: "Igual ao da vó", Rating: 5},
		},
	},
	{
		draft: types.RecipeDraft{
			Name:        "Feijoada",
			Ingredients: []string{"1kg de feijão preto", "500g de carne seca", "300g de linguiça", "1 cebola", "4 dentes de alho"},
			Steps:       []string{"Deixe o feijão de molho", "Dessalgue a carne seca", "Cozinhe tudo na pressão", "Refogue a cebola e o alho e junte ao feijão"},
			Nutrition:   types.Nutrition{Calories: 650, Protein: 42, Fat: 28, Carbs: 55},
			Categories:  []string{"Prato Principal", "Almoço", "Carne"},
		},
	},
	{
		draft: types.RecipeDraft{
			Name:        "Vitamina de Banana",
			Ingredients: []string{"2 bananas", "300ml de leite", "1 colher de aveia", "mel a gosto"},
			Steps:       []string{"Bata tudo no liquidificador", "Sirva gelado"},
			Nutrition:   types.Nutrition{Calories: 280, Protein: 10, Fat: 6, Carbs: 48},
			Categories:  []string{"Bebida", "Café da Manhã", "Fitness"},
		},
		comments: []types.CreateCommentRequest{
			{Text: "Perfeita depois do treino", Rating: 4},
		},
	},
	{
		draft: types.RecipeDraft{
			Name:        "Salada de Grão-de-Bico",
			Ingredients: []string{"2 xícaras de grão-de-bico cozido", "1 tomate", "1/2 cebola roxa", "salsinha", "azeite e limão"},
			Steps:       []string{"Pique os legumes", "Misture com o grão-de-bico", "Tempere com azeite e limão"},
			Nutrition:   types.Nutrition{Calories: 310, Protein: 13, Fat: 11, Carbs: 38},
			Categories:  []string{"Salada", "Vegano", "Sem Lactose"},
		},
	},
	{
		draft: types.RecipeDraft{
			Name:        "Brigadeiro",
			Ingredients: []string{"1 lata de leite condensado", "1 colher de manteiga", "3 colheres de chocolate em pó", "granulado"},
			Steps:       []string{"Cozinhe em fogo baixo mexendo sempre", "Deixe esfriar", "Enrole e passe no granulado"},
			Nutrition:   types.Nutrition{Calories: 110, Protein: 2, Fat: 4, Carbs: 17},
			Categories:  []string{"Sobremesa"},
		},
		comments: []types.CreateCommentRequest{
			{Text: "Clássico de festa", Rating: 5},
			{Text: "Doce demais pra mim", Rating: 2},
		},
	},
}

func main() {
	fake := flag.Int("fake", 0, "Number of additional generated recipes")
	seed := flag.Int64("seed", 0, "Seed for generated recipes, 0 picks a random one")
	flag.Parse()

	log := logger.NewForEnvironment(string(config.GetEnvironment()))
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), log, *fake, *seed); err != nil {
		log.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, fake int, seed int64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := database.RunMigrations(db.DB, cfg.Database.MigrationsDir, log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	recipes := service.NewRecipeService(db.DB, service.WithLogger(log))

	created := 0
	for _, r := range baseRecipes {
		if err := seedOne(ctx, recipes, r); err != nil {
			log.Warn("Failed to seed recipe", zap.String("name", r.draft.Name), zap.Error(err))
			continue
		}
		created++
	}

	faker := gofakeit.New(seed)
	for i := 0; i < fake; i++ {
		r := seedRecipe{draft: fakeDraft(faker)}
		for j := faker.IntRange(0, 3); j > 0; j-- {
			r.comments = append(r.comments, types.CreateCommentRequest{
				Text:   faker.Sentence(8),
				Rating: faker.IntRange(1, 5),
			})
		}
		if err := seedOne(ctx, recipes, r); err != nil {
			log.Warn("Failed to seed generated recipe", zap.String("name", r.draft.Name), zap.Error(err))
			continue
		}
		created++
	}

	log.Info("Seeding finished", zap.Int("recipes", created))
	return nil
}

func seedOne(ctx context.Context, recipes service.IRecipeService, r seedRecipe) error {
	recipe, err := recipes.CreateRecipe(ctx, r.draft)
	if err != nil {
		return err
	}
	for _, c := range r.comments {
		if _, err := recipes.AddComment(ctx, recipe.ID, c); err != nil {
			return err
		}
	}
	return nil
}

func fakeDraft(f *gofakeit.Faker) types.RecipeDraft {
	ingredients := make([]string, f.IntRange(3, 7))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d %s %s", f.IntRange(1, 500), f.RandomString([]string{"g de", "ml de", "unidades de"}), f.Vegetable())
	}
	steps := make([]string, f.IntRange(2, 5))
	for i := range steps {
		steps[i] = f.Sentence(7)
	}
	return types.RecipeDraft{
		Name:        f.Dinner(),
		Ingredients: ingredients,
		Steps:       steps,
		Nutrition: types.Nutrition{
			Calories: float64(f.IntRange(80, 900)),
			Protein:  float64(f.IntRange(0, 60)),
			Fat:      float64(f.IntRange(0, 45)),
			Carbs:    float64(f.IntRange(0, 110)),
		},
		Categories: []string{f.RandomString(types.RecipeCategories)},
	}
}
