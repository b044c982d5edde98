package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"fridge-recipe/internal/api"
	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/core/matcher"
	"fridge-recipe/internal/core/quota"
	"fridge-recipe/internal/core/recipe"
	"fridge-recipe/internal/core/seed"
	"fridge-recipe/internal/core/spoonacular"
	"fridge-recipe/internal/core/transcript"
	"fridge-recipe/internal/core/youtube"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/infrastructure/database"
	"fridge-recipe/internal/infrastructure/httpclient"
	"fridge-recipe/internal/infrastructure/redisclient"
	"fridge-recipe/internal/pkg/common"
	"fridge-recipe/internal/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("youtube_api_key", config.MaskAPIKey(cfg.YouTube.APIKey)),
		zap.String("spoonacular_api_key", config.MaskAPIKey(cfg.Spoonacular.APIKey)),
		zap.String("quota_backend", cfg.Quota.Backend),
	)

	db, err := database.Open(cfg.Database, cfg.App.Debug)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if err := catalog.Migrate(db); err != nil {
		common.LogFatal("Failed to migrate catalog", zap.Error(err))
	}
	repo := catalog.NewRepository(db)

	// 種子資料寫完才建立比對索引並開始接受請求
	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Minute)
	seed.NewLoader(repo, cfg.Seed).Seed(startCtx)
	index, err := matcher.Load(startCtx, repo)
	cancelStart()
	if err != nil {
		common.LogFatal("Failed to build match index", zap.Error(err))
	}
	metrics.CatalogRecipes.Set(float64(index.Len()))
	common.LogInfo("比對索引就緒", zap.Int("recipes", index.Len()))

	loc := cfg.Quota.Location()
	redisClient := connectRedis(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	httpClient := httpclient.New(cfg.HTTP)
	usage := quota.NewUsageTracker(cfg.YouTube.DailyUnitLimit, cfg.YouTube.SearchCost, loc)
	// 每個外部服務一個「缺少金鑰」警告，由該服務的所有呼叫共用
	ytNoKey := common.NewOnceNotice("YouTube API 金鑰未設定，影片推薦停用")
	spoonNoKey := common.NewOnceNotice("Spoonacular API 金鑰未設定，外部食譜搜尋停用")

	ytClient := youtube.NewClient(httpClient, cfg.YouTube,
		youtube.WithUsageTracker(usage),
		youtube.WithNoKeyNotice(ytNoKey),
	)
	spoonClient := spoonacular.NewClient(httpClient, cfg.Spoonacular, spoonacularLimiter(cfg, redisClient, loc),
		spoonacular.WithNoKeyNotice(spoonNoKey),
	)
	steps := transcript.NewService(httpClient, cfg.YouTube.WatchBaseURL, ytClient)

	router := api.SetupRouter(cfg, api.Dependencies{
		Catalog:     repo,
		Recommender: recipe.NewRecommendService(repo, index, ytClient, spoonClient),
		Details:     recipe.NewDetailService(repo, ytClient, spoonClient),
		Steps:       steps,
		Usage:       usage,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}

// connectRedis quota.backend=redis 時連線；失敗則退回記憶體計數
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.Quota.Backend != "redis" {
		return nil
	}
	client, err := redisclient.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		common.LogWarn("Redis 無法連線，配額改用記憶體計數",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err),
		)
		return nil
	}
	common.LogInfo("Redis 配額計數已啟用", zap.String("addr", cfg.Redis.Addr))
	return client
}

func spoonacularLimiter(cfg *config.Config, client *redis.Client, loc *time.Location) quota.Limiter {
	if client == nil {
		return quota.NewDailyLimiter(cfg.Spoonacular.DailyQuota, loc)
	}
	return quota.NewRedisLimiter(client, cfg.Redis.KeyPrefix, "spoonacular", cfg.Spoonacular.DailyQuota, loc)
}
