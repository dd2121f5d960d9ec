package types

import (
	"github.com/pageza/recipebox/backend/internal/models"
)

// CreateUserRequest represents the request body for signing up
type CreateUserRequest struct {
	Email    string `json:"email" binding:"max=255"`
	Password string `json:"password" binding:"max=128"`
	Name     string `json:"name" binding:"max=255"`
}

// TokenRequest represents the credentials exchanged for a bearer token
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is a partial update of the caller's own account. Nil
// fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,max=255"`
	Password *string `json:"password" binding:"omitempty,max=128"`
	Name     *string `json:"name" binding:"omitempty,max=255"`
}

// NamePayload is a nested tag or ingredient reference inside a recipe body.
type NamePayload struct {
	Name string `json:"name" binding:"max=255"`
}

// RecipeRequest is the body of recipe create, replace and partial update.
// A nil Tags or Ingredients leaves the relation untouched; a non-nil empty
// slice clears it.
type RecipeRequest struct {
	Title       *string        `json:"title" binding:"omitempty,max=255"`
	Description *string        `json:"description"`
	TimeMin     *int           `json:"time_min"`
	Price       *models.Price  `json:"price"`
	Link        *string        `json:"link" binding:"omitempty,max=255"`
	Tags        *[]NamePayload `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]NamePayload `json:"ingredients" binding:"omitempty,dive"`
}

// AttrRequest is the body of tag and ingredient create and rename.
type AttrRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
}
