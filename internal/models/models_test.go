package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&User{}, &Token{}, &Tag{}, &Ingredient{}, &Recipe{}))
	return db
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
		{"  padded@Example.org ", "padded@example.org"},
		{"no-at-sign", "no-at-sign"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmail(tt.in))
		})
	}
}

func TestRecipeString(t *testing.T) {
	r := Recipe{Title: "Steak and mushroom sauce"}
	assert.Equal(t, "Steak and mushroom sauce", r.String())
	assert.Equal(t, "Vegan", Tag{Name: "Vegan"}.String())
	assert.Equal(t, "Cucumber", Ingredient{Name: "Cucumber"}.String())
}

func TestPriceJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		Price Price `json:"price"`
	}{MustPrice("5.5")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"5.50"}`, string(out))

	var in struct {
		Price Price `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price":"12.25"}`), &in))
	assert.Equal(t, "12.25", in.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"price":3}`), &in))
	assert.Equal(t, "3.00", in.Price.String())
}

func TestPriceValidate(t *testing.T) {
	assert.NoError(t, MustPrice("5.50").Validate())
	assert.NoError(t, MustPrice("999.99").Validate())
	assert.NoError(t, MustPrice("0").Validate())
	assert.Error(t, MustPrice("1.234").Validate())
	assert.Error(t, MustPrice("1000").Validate())
}

func TestRecipePersistsPriceAndRelations(t *testing.T) {
	db := setupTestDB(t)

	user := User{Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	recipe := Recipe{
		UserID:  user.ID,
		Title:   "Sample recipe",
		TimeMin: 5,
		Price:   MustPrice("5.50"),
		Tags:    []Tag{{UserID: user.ID, Name: "Dinner"}},
	}
	require.NoError(t, db.Create(&recipe).Error)

	var got Recipe
	require.NoError(t, db.Preload("Tags").First(&got, recipe.ID).Error)
	assert.Equal(t, "5.50", got.Price.String())
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Dinner", got.Tags[0].Name)
}

func TestAttributeNameUniquePerOwner(t *testing.T) {
	db := setupTestDB(t)

	a := User{Email: "a@example.com", PasswordHash: "x"}
	b := User{Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, db.Create(&Tag{UserID: a.ID, Name: "Vegan"}).Error)
	require.NoError(t, db.Create(&Tag{UserID: b.ID, Name: "Vegan"}).Error)
	assert.Error(t, db.Create(&Tag{UserID: a.ID, Name: "Vegan"}).Error)
}
