package api

import (
	"github.com/pageza/recipebox/backend/internal/models"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// AttrResponse renders a tag or ingredient.
type AttrResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeResponse is a recipe as it appears in lists.
type RecipeResponse struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	TimeMin     int            `json:"time_min"`
	Price       models.Price   `json:"price"`
	Link        string         `json:"link"`
	Tags        []AttrResponse `json:"tags"`
	Ingredients []AttrResponse `json:"ingredients"`
}

// RecipeDetailResponse adds the long-form fields to RecipeResponse.
type RecipeDetailResponse struct {
	RecipeResponse
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

// ImageResponse is returned after an upload.
type ImageResponse struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

func newAttrResponse(a models.Attribute) AttrResponse {
	return AttrResponse{ID: a.GetID(), Name: a.GetName()}
}

func newRecipeResponse(r *models.Recipe) RecipeResponse {
	out := RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMin:     r.TimeMin,
		Price:       r.Price,
		Link:        r.Link,
		Tags:        make([]AttrResponse, 0, len(r.Tags)),
		Ingredients: make([]AttrResponse, 0, len(r.Ingredients)),
	}
	for i := range r.Tags {
		out.Tags = append(out.Tags, newAttrResponse(&r.Tags[i]))
	}
	for i := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, newAttrResponse(&r.Ingredients[i]))
	}
	return out
}

func optionalURL(url string) *string {
	if url == "" {
		return nil
	}
	return &url
}
