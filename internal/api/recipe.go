package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrifit/backend/internal/service"
	"github.com/pageza/nutrifit/backend/internal/types"
)

// RecipeHandler serves the recipe and comment routes
type RecipeHandler struct {
	recipes service.IRecipeService
}

// NewRecipeHandler creates a new RecipeHandler
func NewRecipeHandler(recipes service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.GET("/:id/comments", h.ListComments)
		recipes.POST("/:id/comments", h.AddComment)
	}
}

// ListRecipes returns every recipe, or the matches of ?q= when given
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var (
		recipes []types.Recipe
		err     error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		recipes, err = h.recipes.SearchRecipes(c.Request.Context(), q)
	} else {
		recipes, err = h.recipes.ListRecipes(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var draft types.RecipeDraft
	if !bindJSON(c, &draft) {
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch types.RecipePatch
	if !bindJSON(c, &patch) {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{
		Message: "Recipe deleted successfully",
		ID:      id,
	})
}

func (h *RecipeHandler) ListComments(c *gin.Context) {
	comments, err := h.recipes.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *RecipeHandler) AddComment(c *gin.Context) {
	var req types.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.recipes.AddComment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
