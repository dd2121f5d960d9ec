package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/models"
)

func TestCreateUser(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":    "test@EXAMPLE.com",
		"password": "testpass123",
		"name":     "Test Name",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"email":"test@example.com","name":"Test Name"}`, w.Body.String())

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "test@example.com").First(&user).Error)
	assert.NotEqual(t, "testpass123", user.PasswordHash)

	w = env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "email")
}

func TestCreateUserValidation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":    "short@example.com",
		"password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Ensure this field has at least 5 characters."}, decode[map[string][]string](t, w)["password"])

	w = env.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"email":    "",
		"password": "testpass123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string][]string](t, w), "email")

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateToken(t *testing.T) {
	env := setupTestRouter(t)
	env.login(t, "test@example.com")

	w := env.do(t, http.MethodPost, "/api/users/token", "", map[string]string{
		"email":    "test@example.com",
		"password": "testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["token"])

	for _, body := range []map[string]string{
		{"email": "test@example.com", "password": "wrong"},
		{"email": "test@example.com", "password": ""},
		{"email": "nobody@example.com", "password": "testpass123"},
	} {
		w = env.do(t, http.MethodPost, "/api/users/token", "", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"non_field_errors":["Unable to authenticate with provided credentials."]}`, w.Body.String())
	}
}

func TestMeEndpoints(t *testing.T) {
	env := setupTestRouter(t)
	token := env.login(t, "me@example.com")

	w := env.do(t, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"me@example.com","name":"Test Name"}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/users/me", token, map[string]string{})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"detail":"Method \"POST\" not allowed."}`, w.Body.String())

	w = env.do(t, http.MethodPatch, "/api/users/me", token, map[string]string{
		"name":     "Updated Name",
		"password": "newpassword123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Updated Name", decode[map[string]string](t, w)["name"])

	w = env.do(t, http.MethodPost, "/api/users/token", "", map[string]string{
		"email":    "me@example.com",
		"password": "newpassword123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/users/me", token, map[string]string{"name": "Only Name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
