// Package client keeps an in-memory mirror of the recipe collection in sync
// with the recipe API.
package client

import (
	"context"
	"io"

	"github.com/pageza/nutrifit/backend/internal/types"
)

// Repository is the remote capability the Store reconciles against
type Repository interface {
	ListRecipes(ctx context.Context) ([]types.Recipe, error)
	CreateRecipe(ctx context.Context, draft types.RecipeDraft) (*types.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch types.RecipePatch) (*types.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	AddComment(ctx context.Context, recipeID string, req types.CreateCommentRequest) (*types.Comment, error)
	ListComments(ctx context.Context, recipeID string) ([]types.Comment, error)
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}
