package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *service.AuthService
}

func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.RegisterJSONTagNames()

	db := testhelpers.SetupSQLite(t)
	auth := service.NewAuthService(db, "test-secret").WithBcryptCost(bcrypt.MinCost)
	images := storage.NewLocalImageStore(t.TempDir(), "/media")

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api")
	api.NewUserHandler(auth).RegisterRoutes(v1)
	api.NewRecipeHandler(service.NewRecipeService(db, images), auth).RegisterRoutes(v1)
	api.NewTagHandler(service.NewTagService(db), auth).RegisterRoutes(v1)
	api.NewIngredientHandler(service.NewIngredientService(db), auth).RegisterRoutes(v1)

	return &testEnv{router: router, db: db, auth: auth}
}

// login creates a user with testhelpers.DefaultPassword and returns its token.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	testhelpers.CreateUser(t, e.db, email)
	token, err := e.auth.Authenticate(context.Background(), email, testhelpers.DefaultPassword)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, token, field string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "upload.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}
