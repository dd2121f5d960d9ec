package service

import (
	"context"
	"io"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

// IAuthService defines the interface for account and token operations
type IAuthService interface {
	CreateUser(ctx context.Context, email, password string, extra UserFields) (*models.User, error)
	CreateSuperuser(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, bearer string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, req *types.UpdateUserRequest, partial bool) (*models.User, error)
}

// IRecipeService defines the interface for owner-scoped recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, owner uint, f RecipeFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, owner, id uint) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, owner uint, req *types.RecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, owner, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, owner, id uint) error
	UploadImage(ctx context.Context, owner, id uint, r io.Reader) (*models.Recipe, error)
	ImageURL(key string) string
}

// IAttrService defines the interface for owner-scoped tag or ingredient
// operations
type IAttrService[T any] interface {
	List(ctx context.Context, owner uint, f AttrFilter) ([]T, error)
	Create(ctx context.Context, owner uint, req *types.AttrRequest) (*T, error)
	Update(ctx context.Context, owner, id uint, req *types.AttrRequest, partial bool) (*T, error)
	Delete(ctx context.Context, owner, id uint) error
}
