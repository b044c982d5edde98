package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Catalog 健康檢查需要的目錄資訊
type Catalog interface {
	CountRecipes(ctx context.Context) (int64, error)
	CountIngredients(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   *CatalogStatus         `json:"catalog,omitempty"`
}

// CatalogStatus 目錄狀態
type CatalogStatus struct {
	Ingredients int64 `json:"ingredients"`
	Recipes     int64 `json:"recipes"`
}

// Handler 健康檢查處理器
type Handler struct {
	catalog Catalog
}

// NewHandler 創建健康檢查處理器
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// HealthCheck 健康檢查，版本從 context 中的設定取得
func (h *Handler) HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	appConfig, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   appConfig.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	ctx := c.Request.Context()
	recipes, rerr := h.catalog.CountRecipes(ctx)
	ingredients, ierr := h.catalog.CountIngredients(ctx)
	if rerr != nil || ierr != nil {
		common.LogWarn("目錄統計失敗", zap.NamedError("recipes", rerr), zap.NamedError("ingredients", ierr))
		response.Status = "degraded"
	} else {
		response.Catalog = &CatalogStatus{Ingredients: ingredients, Recipes: recipes}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料庫可連線時才就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.catalog.Ping(c.Request.Context()); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		common.AbortWithError(c, common.ErrServiceUnavailable.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
