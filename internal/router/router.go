package router

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/config"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/database"
	"github.com/pageza/recipebox/backend/internal/middleware"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/storage"
)

// Dependencies are the long-lived resources the routes are built on.
// Redis is optional; without it requests are not rate limited.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Images storage.ImageStore
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	middleware.RegisterJSONTagNames()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	router.Use(
		middleware.RequestID(logger),
		middleware.Logger(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.ErrorHandler(),
	)

	var limit []gin.HandlerFunc
	if deps.Redis != nil {
		limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window: cfg.RateLimitWindow,
			Limit:  cfg.RateLimitRequests,
		})
		limit = append(limit, limiter.RateLimitMiddleware())
	}

	router.GET("/health", healthCheck(deps.DB, deps.Redis))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if local, ok := deps.Images.(*storage.LocalImageStore); ok && strings.HasPrefix(cfg.MediaURL, "/") {
		router.Static(cfg.MediaURL, local.Root())
	}

	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	recipeService := service.NewRecipeService(deps.DB, deps.Images)

	v1 := router.Group("/api")

	api.NewUserHandler(authService).RegisterRoutes(v1, limit...)
	api.NewRecipeHandler(recipeService, authService).RegisterRoutes(v1, limit...)
	api.NewTagHandler(service.NewTagService(deps.DB), authService).RegisterRoutes(v1, limit...)
	api.NewIngredientHandler(service.NewIngredientService(deps.DB), authService).RegisterRoutes(v1, limit...)

	return router
}

func healthCheck(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		status := http.StatusOK
		if err := database.HealthCheck(ctx, db); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		state := "healthy"
		if status != http.StatusOK {
			state = "unhealthy"
		}
		c.JSON(status, gin.H{"status": state, "checks": checks})
	}
}
