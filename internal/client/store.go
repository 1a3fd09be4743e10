package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// Store is the in-memory mirror of the recipe collection. Its mutation
// methods are the only write path: each calls the Repository first and
// applies the result to the cache only on success, so a failure leaves the
// cache exactly as it was.
type Store struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time

	mu      sync.RWMutex
	recipes []types.Recipe
	loading bool
	loadErr error
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithNotifier sets where user-visible outcomes are reported
func WithNotifier(n Notifier) StoreOption {
	return func(s *Store) { s.notifier = n }
}

// WithStoreClock replaces the time source used for local updatedAt refreshes
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store. It reports Loading until Load finishes.
func NewStore(repo Repository, opts ...StoreOption) *Store {
	s := &Store{
		repo:     repo,
		notifier: NopNotifier{},
		now:      time.Now,
		recipes:  []types.Recipe{},
		loading:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the full collection. A failure leaves the cache empty and is
// reported through the notifier and LoadError rather than returned.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	recipes, err := s.repo.ListRecipes(ctx)

	next := make([]types.Recipe, 0, len(recipes))
	for _, r := range recipes {
		r = r.Clone()
		r.Normalize()
		next = append(next, r)
	}

	s.mu.Lock()
	s.loading = false
	s.loadErr = err
	s.recipes = next
	s.mu.Unlock()

	if err != nil {
		s.notify(LevelError, "Failed to load recipes", err)
	}
}

// Loading reports whether the initial fetch is still in flight
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadError returns the error of the last Load, if any
func (s *Store) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Recipes returns a copy of the cached collection
func (s *Store) Recipes() []types.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.recipes)
}

// Get returns a copy of the cached recipe with the given id
func (s *Store) Get(id string) (types.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.recipes[i].Clone(), true
	}
	return types.Recipe{}, false
}

// Add creates a recipe and puts it at the front of the cache
func (s *Store) Add(ctx context.Context, draft types.RecipeDraft) (types.Recipe, error) {
	created, err := s.repo.CreateRecipe(ctx, draft)
	if err != nil {
		s.notify(LevelError, "Failed to add recipe", err)
		return types.Recipe{}, err
	}

	recipe := created.Clone()
	recipe.Normalize()

	s.mu.Lock()
	next := make([]types.Recipe, 0, len(s.recipes)+1)
	next = append(next, recipe)
	next = append(next, s.recipes...)
	s.recipes = next
	s.mu.Unlock()

	s.notify(LevelInfo, "Recipe added", nil)
	return recipe.Clone(), nil
}

// Update sends patch and merges it into the cached entry. Supplied lists and
// nutrition replace the cached values; updatedAt is taken from the server
// when it answers with the recipe and from the local clock otherwise.
func (s *Store) Update(ctx context.Context, id string, patch types.RecipePatch) (types.Recipe, error) {
	updated, err := s.repo.UpdateRecipe(ctx, id, patch)
	if err != nil {
		s.notify(LevelError, "Failed to update recipe", err)
		return types.Recipe{}, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.notify(LevelInfo, "Recipe updated", nil)
		if updated == nil {
			return types.Recipe{}, nil
		}
		return updated.Clone(), nil
	}

	recipe := s.recipes[i].Clone()
	patch.Apply(&recipe)
	recipe.UpdatedAt = types.ToMillis(s.now())
	if updated != nil && updated.UpdatedAt > 0 {
		recipe.UpdatedAt = updated.UpdatedAt
	}
	recipe.Normalize()

	next := cloneSlice(s.recipes)
	next[i] = recipe
	s.recipes = next
	s.mu.Unlock()

	s.notify(LevelInfo, "Recipe updated", nil)
	return recipe.Clone(), nil
}

// Remove deletes a recipe and drops it from the cache
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.repo.DeleteRecipe(ctx, id); err != nil {
		s.notify(LevelError, "Failed to delete recipe", err)
		return err
	}

	s.mu.Lock()
	next := make([]types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if r.ID != id {
			next = append(next, r)
		}
	}
	s.recipes = next
	s.mu.Unlock()

	s.notify(LevelInfo, "Recipe deleted", nil)
	return nil
}

// AddComment posts a comment, puts it first in the cached recipe's comments
// and recomputes the average rating
func (s *Store) AddComment(ctx context.Context, recipeID, text string, rating int) (types.Comment, error) {
	comment, err := s.repo.AddComment(ctx, recipeID, types.CreateCommentRequest{Text: text, Rating: rating})
	if err != nil {
		s.notify(LevelError, "Failed to add comment", err)
		return types.Comment{}, err
	}

	s.mu.Lock()
	if i := s.indexOf(recipeID); i >= 0 {
		recipe := s.recipes[i].Clone()
		recipe.Comments = append([]types.Comment{*comment}, recipe.Comments...)
		recipe.AvgRating = types.AverageRating(recipe.Comments)
		if comment.CreatedAt > recipe.UpdatedAt {
			recipe.UpdatedAt = comment.CreatedAt
		}

		next := cloneSlice(s.recipes)
		next[i] = recipe
		s.recipes = next
	}
	s.mu.Unlock()

	s.notify(LevelInfo, "Comment added", nil)
	return *comment, nil
}

// Search returns the cached recipes whose name, or any one ingredient,
// contains term ignoring case. An empty term matches everything.
func (s *Store) Search(term string) []types.Recipe {
	return s.SearchAndFilter(term, nil)
}

// FilterByCategories returns the cached recipes carrying at least one of the
// selected categories. An empty selection matches everything.
func (s *Store) FilterByCategories(selected []string) []types.Recipe {
	return s.SearchAndFilter("", selected)
}

// SearchAndFilter applies both Search and FilterByCategories
func (s *Store) SearchAndFilter(term string, categories []string) []types.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	wanted := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	out := make([]types.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if matchesTerm(r, term) && matchesCategories(r, wanted) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func matchesTerm(r types.Recipe, term string) bool {
	if term == "" || strings.Contains(strings.ToLower(r.Name), term) {
		return true
	}
	for _, ingredient := range r.Ingredients {
		if strings.Contains(strings.ToLower(ingredient), term) {
			return true
		}
	}
	return false
}

func matchesCategories(r types.Recipe, wanted map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, c := range r.Categories {
		if _, ok := wanted[c]; ok {
			return true
		}
	}
	return false
}

// indexOf must be called with the lock held
func (s *Store) indexOf(id string) int {
	for i, r := range s.recipes {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(level Level, title string, err error) {
	note := Notification{Level: level, Title: title}
	if err != nil {
		note.Message = err.Error()
	}
	s.notifier.Notify(note)
}

// cloneSlice copies the slice header level; entries are replaced, never
// mutated in place
func cloneSlice(in []types.Recipe) []types.Recipe {
	return append([]types.Recipe(nil), in...)
}

func cloneAll(in []types.Recipe) []types.Recipe {
	out := make([]types.Recipe, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
