package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/nutrifit/backend/internal/model"
	"github.com/pageza/nutrifit/backend/internal/types"
	apperrors "github.com/pageza/nutrifit/backend/pkg/errors"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// RecipeServiceOption configures a RecipeService
type RecipeServiceOption func(*RecipeService)

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) RecipeServiceOption {
	return func(s *RecipeService) {
		s.logger = logger
	}
}

// WithClock replaces the time source used for timestamps
func WithClock(now func() time.Time) RecipeServiceOption {
	return func(s *RecipeService) {
		s.now = now
	}
}

// WithIDGenerator replaces the id source
func WithIDGenerator(newID func() string) RecipeServiceOption {
	return func(s *RecipeService) {
		s.newID = newID
	}
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, opts ...RecipeServiceOption) *RecipeService {
	s := &RecipeService{
		db:       db,
		validate: newValidator(),
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ IRecipeService = (*RecipeService)(nil)

// timestamp is the current time at the millisecond precision of the domain
func (s *RecipeService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// CreateRecipe persists a new recipe with a fresh id and timestamps
func (s *RecipeService) CreateRecipe(ctx context.Context, draft types.RecipeDraft) (*types.Recipe, error) {
	draft.Sanitize()
	if err := s.validate.Struct(draft); err != nil {
		return nil, toValidationError(err)
	}

	recipe := draft.ToRecipe()
	recipe.ID = s.newID()
	now := types.ToMillis(s.timestamp())
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	row := model.EncodeRecipe(recipe)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, s.dbError("create recipe", err)
	}

	s.logger.Info("Recipe created", zap.String("recipe_id", row.ID), zap.String("name", row.Name))
	created := model.DecodeRecipe(row)
	return &created, nil
}

// GetRecipe retrieves a recipe by ID together with its comments
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*types.Recipe, error) {
	db := s.db.WithContext(ctx)
	row, err := s.findRecipe(db, id)
	if err != nil {
		return nil, err
	}
	recipes, err := s.withComments(db, []model.RecipeRow{*row})
	if err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListRecipes returns every recipe, newest first, with comments attached.
// A damaged row degrades field by field instead of failing the list.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	db := s.db.WithContext(ctx)
	var rows []model.RecipeRow
	if err := db.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, s.dbError("list recipes", err)
	}
	return s.withComments(db, rows)
}

// SearchRecipes returns the recipes whose name, or any one ingredient,
// contains query ignoring case. Ingredients are stored as JSON text, so
// matching runs on the decoded lists rather than in SQL.
func (s *RecipeService) SearchRecipes(ctx context.Context, query string) ([]types.Recipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListRecipes(ctx)
	}

	db := s.db.WithContext(ctx)
	var rows []model.RecipeRow
	if err := db.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, s.dbError("search recipes", err)
	}

	term := strings.ToLower(query)
	matched := rows[:0]
	for _, row := range rows {
		if rowMatches(row, term) {
			matched = append(matched, row)
		}
	}
	return s.withComments(db, matched)
}

func rowMatches(row model.RecipeRow, term string) bool {
	if strings.Contains(strings.ToLower(row.Name), term) {
		return true
	}
	for _, ingredient := range row.Ingredients {
		if strings.Contains(strings.ToLower(ingredient), term) {
			return true
		}
	}
	return false
}

// UpdateRecipe applies the supplied fields and refreshes updatedAt
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch types.RecipePatch) (*types.Recipe, error) {
	patch.Sanitize()
	if err := s.validate.Struct(patch); err != nil {
		return nil, toValidationError(err)
	}

	var updated model.RecipeRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.findRecipe(tx, id)
		if err != nil {
			return err
		}

		recipe := model.DecodeRecipe(*row)
		patch.Apply(&recipe)
		recipe.UpdatedAt = types.ToMillis(s.timestamp())

		updated = model.EncodeRecipe(recipe)
		if err := tx.Save(&updated).Error; err != nil {
			return s.dbError("update recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recipe updated", zap.String("recipe_id", id))
	recipes, err := s.withComments(s.db.WithContext(ctx), []model.RecipeRow{updated})
	if err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// DeleteRecipe hard-deletes a recipe and its comments. Deleting a missing
// recipe, including one deleted a moment ago, is a not found error.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&model.RecipeRow{})
		if res.Error != nil {
			return s.dbError("delete recipe", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NewRecipeNotFoundError(id)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.CommentRow{}).Error; err != nil {
			return s.dbError("delete comments", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Recipe deleted", zap.String("recipe_id", id))
	return nil
}

// AddComment validates and stores a comment, touching the recipe's updatedAt
func (s *RecipeService) AddComment(ctx context.Context, recipeID string, req types.CreateCommentRequest) (*types.Comment, error) {
	req.Sanitize()
	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	now := s.timestamp()
	row := model.CommentRow{
		ID:        s.newID(),
		RecipeID:  recipeID,
		Text:      req.Text,
		Rating:    req.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.findRecipe(tx, recipeID); err != nil {
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return s.dbError("create comment", err)
		}
		err := tx.Model(&model.RecipeRow{}).
			Where("id = ?", recipeID).
			Update("updated_at", now).Error
		if err != nil {
			return s.dbError("touch recipe", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Comment added",
		zap.String("recipe_id", recipeID),
		zap.String("comment_id", row.ID),
		zap.Int("rating", row.Rating),
	)
	comment := model.DecodeComment(row)
	return &comment, nil
}

// ListComments returns a recipe's comments, newest first
func (s *RecipeService) ListComments(ctx context.Context, recipeID string) ([]types.Comment, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.findRecipe(db, recipeID); err != nil {
		return nil, err
	}

	var rows []model.CommentRow
	if err := db.Where("recipe_id = ?", recipeID).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, s.dbError("list comments", err)
	}
	return model.DecodeComments(rows), nil
}

func (s *RecipeService) findRecipe(db *gorm.DB, id string) (*model.RecipeRow, error) {
	var row model.RecipeRow
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(id)
		}
		return nil, s.dbError("get recipe", err)
	}
	return &row, nil
}

// withComments decodes rows and attaches their comments using one extra query
func (s *RecipeService) withComments(db *gorm.DB, rows []model.RecipeRow) ([]types.Recipe, error) {
	recipes := make([]types.Recipe, 0, len(rows))
	if len(rows) == 0 {
		return recipes, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var commentRows []model.CommentRow
	err := db.Where("recipe_id IN ?", ids).
		Order("created_at DESC").
		Order("id DESC").
		Find(&commentRows).Error
	if err != nil {
		return nil, s.dbError("list comments", err)
	}

	byRecipe := make(map[string][]types.Comment, len(rows))
	for _, c := range commentRows {
		byRecipe[c.RecipeID] = append(byRecipe[c.RecipeID], model.DecodeComment(c))
	}

	for _, row := range rows {
		recipe := model.DecodeRecipe(row)
		recipe.Comments = byRecipe[row.ID]
		recipe.AvgRating = types.AverageRating(recipe.Comments)
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

func (s *RecipeService) dbError(op string, err error) error {
	s.logger.Error("Database operation failed", zap.String("operation", op), zap.Error(err))
	return apperrors.NewDatabaseError(op, err)
}
