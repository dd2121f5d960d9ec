package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/types"
	"gorm.io/gorm"
)

type RecipeService struct {
	db     *gorm.DB
	images storage.ImageStore
}

var _ IRecipeService = (*RecipeService)(nil)

func NewRecipeService(db *gorm.DB, images storage.ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// ListRecipes returns owner's recipes matching f, newest first, with tags
// and ingredients loaded.
func (s *RecipeService) ListRecipes(ctx context.Context, owner uint, f RecipeFilter) ([]models.Recipe, error) {
	var recipes []models.Recipe
	q := s.db.WithContext(ctx).Model(&models.Recipe{})
	err := f.Apply(q, owner).
		Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *RecipeService) GetRecipe(ctx context.Context, owner, id uint) (*models.Recipe, error) {
	return s.load(s.db.WithContext(ctx), owner, id)
}

func (s *RecipeService) load(db *gorm.DB, owner, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.Preload("Tags", orderByID).
		Preload("Ingredients", orderByID).
		Where("id = ? AND user_id = ?", id, owner).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// CreateRecipe inserts the recipe and its tag and ingredient relations in
// one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, owner uint, req *types.RecipeRequest) (*models.Recipe, error) {
	if err := validateRecipe(req, false); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{UserID: owner}
	applyRecipeFields(recipe, req)

	var out *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "User").Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		if err := s.setRelations(tx, owner, recipe, req); err != nil {
			return err
		}
		var err error
		out, err = s.load(tx, owner, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRecipe applies a full (partial=false) or partial update. Relation
// sets are only replaced when present in req.
func (s *RecipeService) UpdateRecipe(ctx context.Context, owner, id uint, req *types.RecipeRequest, partial bool) (*models.Recipe, error) {
	if err := validateRecipe(req, partial); err != nil {
		return nil, err
	}

	var out *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.load(tx, owner, id)
		if err != nil {
			return err
		}
		if !partial {
			// a full replace resets optional fields that were left out
			recipe.Description, recipe.Link = "", ""
		}
		applyRecipeFields(recipe, req)

		err = tx.Model(recipe).
			Select("title", "description", "time_min", "price", "link").
			Updates(recipe).Error
		if err != nil {
			return fmt.Errorf("failed to update recipe %d: %w", id, err)
		}
		if err := s.setRelations(tx, owner, recipe, req); err != nil {
			return err
		}
		out, err = s.load(tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecipeService) setRelations(tx *gorm.DB, owner uint, recipe *models.Recipe, req *types.RecipeRequest) error {
	if req.Tags != nil {
		if err := upsertRelations[models.Tag](tx, owner, recipe, *req.Tags); err != nil {
			return err
		}
	}
	if req.Ingredients != nil {
		if err := upsertRelations[models.Ingredient](tx, owner, recipe, *req.Ingredients); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecipe removes the recipe, its relation rows and its stored image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, owner, id uint) error {
	var image string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.Select("id", "image").Where("id = ? AND user_id = ?", id, owner).First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load recipe %d: %w", id, err)
		}
		image = recipe.Image

		for _, kind := range []models.AttributeKind{models.TagKind, models.IngredientKind} {
			if err := tx.Exec("DELETE FROM "+kind.JoinTable+" WHERE recipe_id = ?", id).Error; err != nil {
				return fmt.Errorf("failed to detach %s: %w", kind.Table, err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if image != "" {
		s.removeImage(ctx, image)
	}
	return nil
}

// UploadImage validates r as an image, stores it under a fresh key and
// points the recipe at it. The previous image, if any, is removed.
func (s *RecipeService) UploadImage(ctx context.Context, owner, id uint, r io.Reader) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	img, err := storage.ReadImage(r)
	if errors.Is(err, storage.ErrInvalidImage) {
		return nil, NewValidationError("image", err.Error())
	}
	if err != nil {
		return nil, err
	}

	key := storage.NewRecipeImageKey(img.Ext)
	if err := s.images.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	previous := recipe.Image
	err = s.db.WithContext(ctx).Model(recipe).Update("image", key).Error
	if err != nil {
		s.removeImage(ctx, key)
		return nil, fmt.Errorf("failed to update recipe %d: %w", id, err)
	}
	recipe.Image = key

	if previous != "" {
		s.removeImage(ctx, previous)
	}
	return recipe, nil
}

// ImageURL resolves a stored image key to its public URL. Empty keys stay
// empty.
func (s *RecipeService) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	return s.images.URL(key)
}

func (s *RecipeService) removeImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to remove stored image", "key", key, "error", err)
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func applyRecipeFields(r *models.Recipe, req *types.RecipeRequest) {
	if req.Title != nil {
		r.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.TimeMin != nil {
		r.TimeMin = *req.TimeMin
	}
	if req.Price != nil {
		r.Price = *req.Price
	}
	if req.Link != nil {
		r.Link = strings.TrimSpace(*req.Link)
	}
}

func validateRecipe(req *types.RecipeRequest, partial bool) error {
	verr := &ValidationError{}
	if !partial {
		if req.Title == nil {
			verr.Add("title", MsgRequired)
		}
		if req.TimeMin == nil {
			verr.Add("time_min", MsgRequired)
		}
		if req.Price == nil {
			verr.Add("price", MsgRequired)
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		verr.Add("title", MsgBlank)
	}
	if req.Price != nil {
		if err := req.Price.Validate(); err != nil {
			verr.Add("price", err.Error())
		}
	}
	validateNames(verr, "tags", req.Tags)
	validateNames(verr, "ingredients", req.Ingredients)
	return verr.OrNil()
}
