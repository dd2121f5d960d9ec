package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/types"
)

type mockValidator struct {
	mock.Mock
}

func (m *mockValidator) ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error) {
	args := m.Called(ctx, token)
	if c := args.Get(0); c != nil {
		return c.(*types.TokenClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func authRouter(v TokenValidator) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	v := new(mockValidator)
	v.On("ValidateToken", mock.Anything, "good").Return(&types.TokenClaims{UserID: 42}, nil)
	v.On("ValidateToken", mock.Anything, "stale").Return(nil, service.ErrInvalidToken)
	r := authRouter(v)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"bearer scheme", "Bearer good", http.StatusOK, `{"id":42}`},
		{"token scheme", "Token good", http.StatusOK, `{"id":42}`},
		{"missing header", "", http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"unknown scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, `{"detail":"Authentication credentials were not provided."}`},
		{"no token", "Bearer", http.StatusUnauthorized, `{"detail":"Invalid token header."}`},
		{"rejected token", "Bearer stale", http.StatusUnauthorized, `{"detail":"Invalid token."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			if tt.status == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
