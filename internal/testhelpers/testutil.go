package testhelpers

import (
	"testing"

	"github.com/pageza/recipebox/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the plain-text password of users created by CreateUser.
const DefaultPassword = "testpass123"

// CreateUser inserts an active user with DefaultPassword.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		Name:         "Test Name",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

// CreateRecipe inserts a recipe with sensible defaults for owner. Fields set
// on r override the defaults.
func CreateRecipe(t *testing.T, db *gorm.DB, owner *models.User, r models.Recipe) *models.Recipe {
	t.Helper()

	r.UserID = owner.ID
	if r.Title == "" {
		r.Title = "Sample recipe"
	}
	if r.TimeMin == 0 {
		r.TimeMin = 22
	}
	if r.Price.IsZero() {
		r.Price = models.MustPrice("5.25")
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return &r
}

// CreateTag inserts a tag owned by owner.
func CreateTag(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{UserID: owner.ID, Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

// CreateIngredient inserts an ingredient owned by owner.
func CreateIngredient(t *testing.T, db *gorm.DB, owner *models.User, name string) *models.Ingredient {
	t.Helper()

	ing := &models.Ingredient{UserID: owner.ID, Name: name}
	if err := db.Create(ing).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ing
}
