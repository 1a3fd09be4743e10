package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrifit/backend/internal/client"
	"github.com/pageza/nutrifit/backend/internal/mocks"
	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []client.Notification
}

func (n *recordingNotifier) Notify(note client.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *recordingNotifier) last() client.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.notes) == 0 {
		return client.Notification{}
	}
	return n.notes[len(n.notes)-1]
}

func sampleRecipes() []types.Recipe {
	return []types.Recipe{
		{
			ID:          "r1",
			Name:        "Banana Bread",
			Ingredients: []string{"banana", "flour"},
			Steps:       []string{"mix", "bake"},
			Nutrition:   types.Nutrition{Calories: 300},
			Categories:  []string{"Sobremesa", "Lanche"},
			CreatedAt:   2000,
			UpdatedAt:   2000,
		},
		{
			ID:          "r2",
			Name:        "Carrot Cake",
			Ingredients: []string{"carrot", "flour"},
			Steps:       []string{"grate", "bake"},
			Categories:  []string{"Sobremesa"},
			Comments:    []types.Comment{{ID: "c1", RecipeID: "r2", Text: "good", Rating: 4}},
			CreatedAt:   1000,
			UpdatedAt:   1000,
		},
	}
}

func loadedStore(t *testing.T) (*client.Store, *mocks.MockRepository, *recordingNotifier) {
	t.Helper()
	repo := new(mocks.MockRepository)
	notes := &recordingNotifier{}
	repo.On("ListRecipes", mock.Anything).Return(sampleRecipes(), nil).Once()

	store := client.NewStore(repo,
		client.WithNotifier(notes),
		client.WithStoreClock(func() time.Time { return time.UnixMilli(9000) }),
	)
	store.Load(context.Background())
	require.NoError(t, store.LoadError())
	return store, repo, notes
}

func snapshot(t *testing.T, store *client.Store) string {
	t.Helper()
	data, err := json.Marshal(store.Recipes())
	require.NoError(t, err)
	return string(data)
}

func TestStore_Load(t *testing.T) {
	repo := new(mocks.MockRepository)
	repo.On("ListRecipes", mock.Anything).Return(sampleRecipes(), nil)
	store := client.NewStore(repo)

	assert.True(t, store.Loading())
	store.Load(context.Background())
	assert.False(t, store.Loading())

	recipes := store.Recipes()
	require.Len(t, recipes, 2)
	assert.Equal(t, 4.0, recipes[1].AvgRating, "average is derived from the comments")
	assert.Equal(t, 0.0, recipes[0].AvgRating)
}

func TestStore_LoadFailure(t *testing.T) {
	repo := new(mocks.MockRepository)
	notes := &recordingNotifier{}
	repo.On("ListRecipes", mock.Anything).Return(nil, apperrors.NewDatabaseError("list recipes", errors.New("down")))
	store := client.NewStore(repo, client.WithNotifier(notes))

	assert.NotPanics(t, func() { store.Load(context.Background()) })

	assert.False(t, store.Loading())
	assert.Empty(t, store.Recipes())
	assert.Error(t, store.LoadError())
	assert.Equal(t, client.LevelError, notes.last().Level)
	assert.Equal(t, "Failed to load recipes", notes.last().Title)
}

func TestStore_AddPrepends(t *testing.T) {
	store, repo, notes := loadedStore(t)
	draft := types.RecipeDraft{Name: "Omelete"}
	repo.On("CreateRecipe", mock.Anything, draft).
		Return(&types.Recipe{ID: "r3", Name: "Omelete", CreatedAt: 3000, UpdatedAt: 3000}, nil)

	created, err := store.Add(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "r3", created.ID)
	assert.NotNil(t, created.Ingredients)

	recipes := store.Recipes()
	require.Len(t, recipes, 3)
	assert.Equal(t, "r3", recipes[0].ID)
	assert.Equal(t, client.LevelInfo, notes.last().Level)
}

func TestStore_AddFailureLeavesCache(t *testing.T) {
	store, repo, notes := loadedStore(t)
	before := snapshot(t, store)
	boom := apperrors.NewDatabaseError("create recipe", errors.New("down"))
	repo.On("CreateRecipe", mock.Anything, mock.Anything).Return(nil, boom)

	_, err := store.Add(context.Background(), types.RecipeDraft{Name: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, snapshot(t, store))
	assert.Equal(t, "Failed to add recipe", notes.last().Title)
}

func TestStore_UpdateMerges(t *testing.T) {
	store, repo, _ := loadedStore(t)
	steps := []string{"only step"}
	patch := types.RecipePatch{Name: types.StringPtr("Banana Loaf"), Steps: &steps}
	repo.On("UpdateRecipe", mock.Anything, "r1", patch).Return(&types.Recipe{ID: "r1", UpdatedAt: 5000}, nil)

	updated, err := store.Update(context.Background(), "r1", patch)
	require.NoError(t, err)
	assert.Equal(t, "Banana Loaf", updated.Name)
	assert.Equal(t, []string{"only step"}, updated.Steps)
	assert.Equal(t, []string{"banana", "flour"}, updated.Ingredients)
	assert.Equal(t, int64(5000), updated.UpdatedAt)

	cached, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, updated, cached)
}

func TestStore_UpdateUsesLocalClockWithoutServerRecipe(t *testing.T) {
	store, repo, _ := loadedStore(t)
	patch := types.RecipePatch{Nutrition: &types.Nutrition{Calories: 10}}
	repo.On("UpdateRecipe", mock.Anything, "r2", patch).Return(nil, nil)

	updated, err := store.Update(context.Background(), "r2", patch)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), updated.UpdatedAt)
	assert.Equal(t, types.Nutrition{Calories: 10}, updated.Nutrition)
}

func TestStore_UpdateRollback(t *testing.T) {
	store, repo, notes := loadedStore(t)
	before := snapshot(t, store)
	repo.On("UpdateRecipe", mock.Anything, "r1", mock.Anything).Return(nil, apperrors.NewRecipeNotFoundError("r1"))

	_, err := store.Update(context.Background(), "r1", types.RecipePatch{Name: types.StringPtr("changed")})
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, before, snapshot(t, store))
	assert.Equal(t, "Failed to update recipe", notes.last().Title)
}

func TestStore_Remove(t *testing.T) {
	store, repo, _ := loadedStore(t)
	repo.On("DeleteRecipe", mock.Anything, "r1").Return(nil).Once()
	repo.On("DeleteRecipe", mock.Anything, "r1").Return(apperrors.NewRecipeNotFoundError("r1"))

	require.NoError(t, store.Remove(context.Background(), "r1"))
	_, ok := store.Get("r1")
	assert.False(t, ok)
	assert.Len(t, store.Recipes(), 1)

	before := snapshot(t, store)
	err := store.Remove(context.Background(), "r1")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, before, snapshot(t, store))
}

func TestStore_AddCommentRecomputesAverage(t *testing.T) {
	store, repo, _ := loadedStore(t)
	repo.On("AddComment", mock.Anything, "r1", types.CreateCommentRequest{Text: "a", Rating: 5}).
		Return(&types.Comment{ID: "c2", RecipeID: "r1", Text: "a", Rating: 5, CreatedAt: 4000}, nil)
	repo.On("AddComment", mock.Anything, "r1", types.CreateCommentRequest{Text: "b", Rating: 3}).
		Return(&types.Comment{ID: "c3", RecipeID: "r1", Text: "b", Rating: 3, CreatedAt: 4001}, nil)
	repo.On("AddComment", mock.Anything, "r1", types.CreateCommentRequest{Text: "c", Rating: 4}).
		Return(&types.Comment{ID: "c4", RecipeID: "r1", Text: "c", Rating: 4, CreatedAt: 4002}, nil)

	for _, c := range []struct {
		text   string
		rating int
	}{{"a", 5}, {"b", 3}, {"c", 4}} {
		_, err := store.AddComment(context.Background(), "r1", c.text, c.rating)
		require.NoError(t, err)
	}

	recipe, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, 4.0, recipe.AvgRating)
	require.Len(t, recipe.Comments, 3)
	assert.Equal(t, "c4", recipe.Comments[0].ID, "newest comment first")
	assert.Equal(t, int64(4002), recipe.UpdatedAt)
}

func TestStore_AddCommentFailure(t *testing.T) {
	store, repo, _ := loadedStore(t)
	before := snapshot(t, store)
	repo.On("AddComment", mock.Anything, "r2", mock.Anything).Return(nil, apperrors.NewValidationError("rating must be between 1 and 5"))

	_, err := store.AddComment(context.Background(), "r2", "great", 6)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, before, snapshot(t, store))
}

func TestStore_Search(t *testing.T) {
	store, _, _ := loadedStore(t)

	names := func(recipes []types.Recipe) []string {
		out := []string{}
		for _, r := range recipes {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Banana Bread", "Carrot Cake"}, names(store.Search("flour")))
	assert.Equal(t, []string{"Banana Bread"}, names(store.Search("banana")))
	assert.Equal(t, []string{"Banana Bread"}, names(store.Search("BANANA")))
	assert.Equal(t, []string{"Carrot Cake"}, names(store.Search("cake")))
	assert.Empty(t, store.Search("chocolate"))
	assert.Len(t, store.Search(""), 2)
}

func TestStore_FilterByCategories(t *testing.T) {
	store, _, _ := loadedStore(t)

	assert.Len(t, store.FilterByCategories(nil), 2)
	assert.Len(t, store.FilterByCategories([]string{"Sobremesa"}), 2)

	lanche := store.FilterByCategories([]string{"Lanche", "Bebida"})
	require.Len(t, lanche, 1)
	assert.Equal(t, "r1", lanche[0].ID)

	assert.Empty(t, store.SearchAndFilter("carrot", []string{"Lanche"}))
	assert.Len(t, store.SearchAndFilter("carrot", []string{"Sobremesa"}), 1)
}

func TestStore_ReadsAreCopies(t *testing.T) {
	store, _, _ := loadedStore(t)

	recipes := store.Recipes()
	recipes[0].Ingredients[0] = "mutated"
	recipes[1].Comments[0].Rating = 1

	got, ok := store.Get("r1")
	require.True(t, ok)
	assert.Equal(t, "banana", got.Ingredients[0])
	got.Name = "mutated"

	again, _ := store.Get("r1")
	assert.Equal(t, "Banana Bread", again.Name)
	carrot, _ := store.Get("r2")
	assert.Equal(t, 4, carrot.Comments[0].Rating)
}
