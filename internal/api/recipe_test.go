package api_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func createRecipe(t *testing.T, env *testEnv, token string, body map[string]any) api.RecipeDetailResponse {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/recipes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[api.RecipeDetailResponse](t, w)
}

func TestRecipesRequireAuth(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid token."}`, w.Body.String())
}

func TestCreateAndGetRecipe(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	created := createRecipe(t, env, token, map[string]any{
		"title":       "Thai prawn curry",
		"time_min":    30,
		"price":       "5.50",
		"description": "Spicy",
		"tags":        []map[string]string{{"name": "Thai"}, {"name": "Dinner"}},
		"ingredients": []map[string]string{{"name": "Prawns"}},
	})
	assert.Equal(t, "Thai prawn curry", created.Title)
	assert.Equal(t, "5.50", created.Price.String())
	assert.Len(t, created.Tags, 2)
	assert.Len(t, created.Ingredients, 1)
	assert.Nil(t, created.Image)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	raw := decode[map[string]any](t, w)
	assert.Equal(t, "5.50", raw["price"])
	assert.Equal(t, "Spicy", raw["description"])
	assert.Contains(t, raw, "image")

	w = env.do(t, http.MethodGet, "/api/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.NotContains(t, list[0], "description")
	assert.ElementsMatch(t, []string{"id", "title", "time_min", "price", "link", "tags", "ingredients"}, keys(list[0]))
}

func TestCreateRecipeValidation(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	w := env.do(t, http.MethodPost, "/api/recipes", token, map[string]any{"title": "No time"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode[map[string][]string](t, w)
	assert.Contains(t, errs, "time_min")
	assert.Contains(t, errs, "price")

	w = env.do(t, http.MethodPost, "/api/recipes", token, map[string]any{
		"title": "Bad price", "time_min": 5, "price": "1.234",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "price")

	w = env.do(t, http.MethodPost, "/api/recipes", token, map[string]any{
		"title": "Bad time", "time_min": "soon", "price": "1.00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"A valid integer is required."}, decode[map[string][]string](t, w)["time_min"])

	w = env.do(t, http.MethodPost, "/api/recipes", token, map[string]any{
		"title": strings.Repeat("x", 256), "time_min": 5, "price": "1.00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "title")
}

func TestOtherUsersRecipeIsNotFound(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")
	otherToken := env.login(t, "other@example.com")

	created := createRecipe(t, env, otherToken, map[string]any{"title": "Theirs", "time_min": 5, "price": "1.00"})
	path := fmt.Sprintf("/api/recipes/%d", created.ID)

	for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
		var body any
		if method == http.MethodPatch {
			body = map[string]any{"title": "Mine now"}
		}
		w := env.do(t, method, path, token, body)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
		assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/recipes", token, nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/recipes/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRecipe(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	created := createRecipe(t, env, token, map[string]any{
		"title":    "Avocado toast",
		"time_min": 10,
		"price":    "2.50",
		"link":     "https://example.com/toast",
		"tags":     []map[string]string{{"name": "Breakfast"}},
	})
	path := fmt.Sprintf("/api/recipes/%d", created.ID)

	w := env.do(t, http.MethodPatch, path, token, map[string]any{"title": "Better toast"})
	require.Equal(t, http.StatusOK, w.Code)
	patched := decode[api.RecipeDetailResponse](t, w)
	assert.Equal(t, "Better toast", patched.Title)
	assert.Len(t, patched.Tags, 1, "omitted tags are kept")

	w = env.do(t, http.MethodPatch, path, token, map[string]any{"tags": []any{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[api.RecipeDetailResponse](t, w).Tags)

	w = env.do(t, http.MethodPut, path, token, map[string]any{"title": "Plain toast"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, path, token, map[string]any{
		"title": "Plain toast", "time_min": 4, "price": "1.00",
	})
	require.Equal(t, http.StatusOK, w.Code)
	replaced := decode[api.RecipeDetailResponse](t, w)
	assert.Equal(t, "Plain toast", replaced.Title)
	assert.Equal(t, 4, replaced.TimeMin)
	assert.Empty(t, replaced.Link)
}

func TestDeleteRecipe(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	created := createRecipe(t, env, token, map[string]any{"title": "Gone", "time_min": 1, "price": "0.50"})
	path := fmt.Sprintf("/api/recipes/%d", created.ID)

	w := env.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRecipesFilterByTags(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	var owner models.User
	require.NoError(t, env.db.Where("email = ?", "cook@example.com").First(&owner).Error)
	vegan := testhelpers.CreateTag(t, env.db, &owner, "Vegan")
	veggie := testhelpers.CreateTag(t, env.db, &owner, "Vegetarian")

	r1 := testhelpers.CreateRecipe(t, env.db, &owner, models.Recipe{Title: "Curry", Tags: []models.Tag{*vegan, *veggie}})
	r2 := testhelpers.CreateRecipe(t, env.db, &owner, models.Recipe{Title: "Tahini", Tags: []models.Tag{*veggie}})
	testhelpers.CreateRecipe(t, env.db, &owner, models.Recipe{Title: "Fish"})

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/recipes?tags=%d,%d", vegan.ID, veggie.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]api.RecipeResponse](t, w)
	require.Len(t, list, 2, "each recipe appears once")
	assert.Equal(t, r2.ID, list[0].ID)
	assert.Equal(t, r1.ID, list[1].ID)

	w = env.do(t, http.MethodGet, "/api/recipes?tags=1,x", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "tags")
}

func TestUploadRecipeImage(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "cook@example.com")

	created := createRecipe(t, env, token, map[string]any{"title": "Pictured", "time_min": 5, "price": "3.00"})
	path := fmt.Sprintf("/api/recipes/%d/upload-image", created.ID)

	w := env.upload(t, path, token, "image", pngBytes(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[api.ImageResponse](t, w)
	assert.Equal(t, created.ID, resp.ID)
	require.NotNil(t, resp.Image)
	assert.True(t, strings.HasPrefix(*resp.Image, "/media/uploads/recipe/"))
	assert.True(t, strings.HasSuffix(*resp.Image, ".png"))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", created.ID), token, nil)
	detail := decode[api.RecipeDetailResponse](t, w)
	require.NotNil(t, detail.Image)
	assert.Equal(t, *resp.Image, *detail.Image)

	w = env.upload(t, path, token, "image", []byte("notimage"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "image")

	w = env.upload(t, path, token, "file", pngBytes(t))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"No file was submitted."}, decode[map[string][]string](t, w)["image"])
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
