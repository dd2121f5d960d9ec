package models

import "time"

// Attribute is the common shape of the per-user name records a recipe can be
// labelled with. Tag and Ingredient are the two kinds.
type Attribute interface {
	GetID() uint
	GetName() string
	SetName(name string)
	SetOwner(userID uint)
	AttributeKind() AttributeKind
}

// AttributeKind describes where a kind of attribute lives and how recipes
// reference it.
type AttributeKind struct {
	Table       string
	JoinTable   string
	JoinColumn  string
	RecipeField string
}

var (
	TagKind = AttributeKind{
		Table:       "tags",
		JoinTable:   "recipe_tags",
		JoinColumn:  "tag_id",
		RecipeField: "Tags",
	}
	IngredientKind = AttributeKind{
		Table:       "ingredients",
		JoinTable:   "recipe_ingredients",
		JoinColumn:  "ingredient_id",
		RecipeField: "Ingredients",
	}
)

type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_tags_user_name" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_tags_user_name" json:"name"`
}

func (t *Tag) GetID() uint                  { return t.ID }
func (t *Tag) GetName() string              { return t.Name }
func (t *Tag) SetName(name string)          { t.Name = name }
func (t *Tag) SetOwner(userID uint)         { t.UserID = userID }
func (t *Tag) AttributeKind() AttributeKind { return TagKind }
func (t Tag) String() string                { return t.Name }

type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ingredients_user_name" json:"-"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_ingredients_user_name" json:"name"`
}

func (i *Ingredient) GetID() uint                  { return i.ID }
func (i *Ingredient) GetName() string              { return i.Name }
func (i *Ingredient) SetName(name string)          { i.Name = name }
func (i *Ingredient) SetOwner(userID uint)         { i.UserID = userID }
func (i *Ingredient) AttributeKind() AttributeKind { return IngredientKind }
func (i Ingredient) String() string                { return i.Name }
