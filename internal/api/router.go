package api

import (
	"net/http"
	"time"

	"fridge-recipe/internal/api/handlers/health"
	"fridge-recipe/internal/api/handlers/ingredient"
	"fridge-recipe/internal/api/handlers/recipe"
	"fridge-recipe/internal/api/handlers/youtube"
	"fridge-recipe/internal/api/middleware"
	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Catalog     catalog.Repository
	Recommender recipe.Recommender
	Details     recipe.DetailResolver
	Steps       youtube.StepsExtractor
	Usage       youtube.UsageReporter
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowWildcard:    true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg.DedupWindow))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout, map[string]any{"config": cfg}))

	healthHandler := health.NewHandler(deps.Catalog)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		ingredientHandler := ingredient.NewHandler(deps.Catalog)
		api.GET("/ingredients", ingredientHandler.List)

		recipeHandler := recipe.NewHandler(deps.Recommender, deps.Details)
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.POST("/recommend", recipeHandler.Recommend)
			recipeGroup.GET("/:id/detail", recipeHandler.Detail)
		}

		youtubeHandler := youtube.NewHandler(deps.Steps, deps.Usage)
		youtubeGroup := api.Group("/youtube")
		{
			youtubeGroup.GET("/quota", youtubeHandler.Quota)
			youtubeGroup.GET("/:videoId/recipe-steps", youtubeHandler.RecipeSteps)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		common.AbortWithError(c, common.ErrNotFound)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Strings("cors_origins", cfg.CORS.AllowedOrigins),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
