package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

// UserHandler serves signup, token exchange and the caller's own account.
type UserHandler struct {
	authService service.IAuthService
}

func NewUserHandler(authService service.IAuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// RegisterRoutes mounts /users. The extra handlers run in front of every
// route, after authentication where the route requires it.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, extra ...gin.HandlerFunc) {
	users := router.Group("/users")
	{
		public := users.Group("")
		public.Use(extra...)
		public.POST("", h.CreateUser)
		public.POST("/token", h.CreateToken)

		me := users.Group("/me")
		me.Use(middleware.AuthMiddleware(h.authService))
		me.Use(extra...)
		me.GET("", h.GetMe)
		me.PUT("", h.UpdateMe(false))
		me.PATCH("", h.UpdateMe(true))
	}
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(), req.Email, req.Password, service.UserFields{Name: req.Name})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *UserHandler) CreateToken(c *gin.Context) {
	var req types.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	token, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	id, err := owner(c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// UpdateMe handles PUT (partial=false, every field required) and PATCH.
func (h *UserHandler) UpdateMe(partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := owner(c)
		if err != nil {
			fail(c, err)
			return
		}

		var req types.UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, err)
			return
		}

		user, err := h.authService.UpdateUser(c.Request.Context(), id, &req, partial)
		if err != nil {
			fail(c, err)
			return
		}

		c.JSON(http.StatusOK, newUserResponse(user))
	}
}
