package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type attrPtr[T any] interface {
	*T
	models.Attribute
}

// AttrHandler serves one kind of attribute (tags or ingredients) under path.
type AttrHandler[T any, PT attrPtr[T]] struct {
	path    string
	service service.IAttrService[T]
	auth    middleware.TokenValidator
}

func NewAttrHandler[T any, PT attrPtr[T]](path string, svc service.IAttrService[T], auth middleware.TokenValidator) *AttrHandler[T, PT] {
	return &AttrHandler[T, PT]{path: path, service: svc, auth: auth}
}

func NewTagHandler(svc service.IAttrService[models.Tag], auth middleware.TokenValidator) *AttrHandler[models.Tag, *models.Tag] {
	return NewAttrHandler[models.Tag]("/tags", svc, auth)
}

func NewIngredientHandler(svc service.IAttrService[models.Ingredient], auth middleware.TokenValidator) *AttrHandler[models.Ingredient, *models.Ingredient] {
	return NewAttrHandler[models.Ingredient]("/ingredients", svc, auth)
}

func (h *AttrHandler[T, PT]) RegisterRoutes(router *gin.RouterGroup, extra ...gin.HandlerFunc) {
	group := router.Group(h.path)
	group.Use(middleware.AuthMiddleware(h.auth))
	group.Use(extra...)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.PUT("/:id", h.Update(false))
		group.PATCH("/:id", h.Update(true))
		group.DELETE("/:id", h.Delete)
	}
}

// List returns the caller's records ordered by name descending.
// assigned_only=1 keeps only those attached to at least one recipe.
func (h *AttrHandler[T, PT]) List(c *gin.Context) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}
	assigned, err := queryFlag(c, "assigned_only")
	if err != nil {
		fail(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), userID, service.AttrFilter{AssignedOnly: assigned})
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]AttrResponse, 0, len(items))
	for i := range items {
		out = append(out, newAttrResponse(PT(&items[i])))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AttrHandler[T, PT]) Create(c *gin.Context) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req types.AttrRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAttrResponse(PT(item)))
}

func (h *AttrHandler[T, PT]) Update(partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c)
		if err != nil {
			fail(c, err)
			return
		}
		id, err := pathID(c)
		if err != nil {
			fail(c, err)
			return
		}

		var req types.AttrRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, err)
			return
		}

		item, err := h.service.Update(c.Request.Context(), userID, id, &req, partial)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, newAttrResponse(PT(item)))
	}
}

func (h *AttrHandler[T, PT]) Delete(c *gin.Context) {
	userID, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
