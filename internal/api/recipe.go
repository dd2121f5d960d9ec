package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

const msgNoFile = "No file was submitted."

// RecipeHandler serves the caller's recipes.
type RecipeHandler struct {
	recipeService service.IRecipeService
	auth          middleware.TokenValidator
}

func NewRecipeHandler(recipeService service.IRecipeService, auth middleware.TokenValidator) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		auth:          auth,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, extra ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.AuthMiddleware(h.auth))
	recipes.Use(extra...)
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PUT("/:id", h.UpdateRecipe(false))
		recipes.PATCH("/:id", h.UpdateRecipe(true))
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/upload-image", h.UploadImage)
	}
}

// ListRecipes returns the caller's recipes, newest first. The tags and
// ingredients query params narrow the list to recipes carrying any of the
// given ids.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}

	var filter service.RecipeFilter
	if filter.TagIDs, err = queryIDs(c, "tags"); err != nil {
		fail(c, err)
		return
	}
	if filter.IngredientIDs, err = queryIDs(c, "ingredients"); err != nil {
		fail(c, err)
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, filter)
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeResponse(&recipes[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, h.detail(recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.detail(recipe))
}

// UpdateRecipe handles PUT (partial=false) and PATCH. Omitted tags or
// ingredients keep their current relations either way.
func (h *RecipeHandler) UpdateRecipe(partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, id, ok := h.ids(c)
		if !ok {
			return
		}

		var req types.RecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, err)
			return
		}

		recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, &req, partial)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, h.detail(recipe))
	}
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage accepts a multipart form with the file in the "image" field.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, id, ok := h.ids(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, service.NewValidationError("image", msgNoFile))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, err)
		return
	}
	defer f.Close()

	recipe, err := h.recipeService.UploadImage(c.Request.Context(), userID, id, f)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageResponse{
		ID:    recipe.ID,
		Image: optionalURL(h.recipeService.ImageURL(recipe.Image)),
	})
}

func (h *RecipeHandler) ids(c *gin.Context) (uint, uint, bool) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return 0, 0, false
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return 0, 0, false
	}
	return userID, id, true
}

func (h *RecipeHandler) detail(r *models.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: newRecipeResponse(r),
		Description:    r.Description,
		Image:          optionalURL(h.recipeService.ImageURL(r.Image)),
	}
}
