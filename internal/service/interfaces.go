package service

import (
	"context"
	"io"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations. It is the only
// write path to the recipe store.
type IRecipeService interface {
	CreateRecipe(ctx context.Context, draft types.RecipeDraft) (*types.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*types.Recipe, error)
	ListRecipes(ctx context.Context) ([]types.Recipe, error)
	SearchRecipes(ctx context.Context, query string) ([]types.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch types.RecipePatch) (*types.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	AddComment(ctx context.Context, recipeID string, req types.CreateCommentRequest) (*types.Comment, error)
	ListComments(ctx context.Context, recipeID string) ([]types.Comment, error)
}

// IUploadService defines the interface for storing uploaded images
type IUploadService interface {
	Store(ctx context.Context, r io.Reader, declaredName string) (string, error)
}

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}
