package models

import (
	"time"
)

type Recipe struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
	UserID      uint         `gorm:"not null;index" json:"-"`
	User        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	TimeMin     int          `gorm:"not null" json:"time_min"`
	Price       Price        `gorm:"type:decimal(5,2);not null" json:"price"`
	Link        string       `gorm:"size:255;not null;default:''" json:"link"`
	Image       string       `gorm:"size:255;not null;default:''" json:"-"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r Recipe) String() string {
	return r.Title
}
