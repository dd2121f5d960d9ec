package service

import (
	"fmt"

	"github.com/pageza/recipebox/backend/internal/models"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Both id sets are optional and are
// AND-ed; within one set any match qualifies.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// AttrFilter narrows a tag or ingredient listing.
type AttrFilter struct {
	AssignedOnly bool
}

// Apply scopes q to owner's recipes matching f, newest first. The id
// filters are subqueries so each recipe appears once.
func (f RecipeFilter) Apply(q *gorm.DB, owner uint) *gorm.DB {
	q = q.Where("recipes.user_id = ?", owner)
	if len(f.TagIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Table(models.TagKind.JoinTable).
				Select("recipe_id").Where("tag_id IN ?", f.TagIDs))
	}
	if len(f.IngredientIDs) > 0 {
		q = q.Where("recipes.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Table(models.IngredientKind.JoinTable).
				Select("recipe_id").Where("ingredient_id IN ?", f.IngredientIDs))
	}
	return q.Order("recipes.id DESC")
}

// Apply scopes q to owner's attributes of kind, by name descending.
func (f AttrFilter) Apply(q *gorm.DB, owner uint, kind models.AttributeKind) *gorm.DB {
	q = q.Where(kind.Table+".user_id = ?", owner)
	if f.AssignedOnly {
		q = q.Where(fmt.Sprintf("%s.id IN (?)", kind.Table),
			q.Session(&gorm.Session{NewDB: true}).Table(kind.JoinTable).Select(kind.JoinColumn))
	}
	return q.Order(kind.Table + ".name DESC").Order(kind.Table + ".id DESC")
}
