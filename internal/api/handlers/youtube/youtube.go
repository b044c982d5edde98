package youtube

import (
	"context"
	"net/http"

	"fridge-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// StepsExtractor 影片步驟擷取
type StepsExtractor interface {
	GetRecipeSteps(ctx context.Context, videoID, title string) common.YoutubeRecipeStepsDto
}

// UsageReporter YouTube 配額估計
type UsageReporter interface {
	UsedToday() int
	Limit() int
}

// Handler YouTube 處理程序
type Handler struct {
	steps StepsExtractor
	usage UsageReporter
}

// NewHandler 創建 YouTube 處理程序
func NewHandler(steps StepsExtractor, usage UsageReporter) *Handler {
	return &Handler{steps: steps, usage: usage}
}

// RecipeSteps GET /api/youtube/:videoId/recipe-steps?title=，取不到步驟時回傳空列表
func (h *Handler) RecipeSteps(c *gin.Context) {
	c.JSON(http.StatusOK, h.steps.GetRecipeSteps(c.Request.Context(), c.Param("videoId"), c.Query("title")))
}

// Quota GET /api/youtube/quota
func (h *Handler) Quota(c *gin.Context) {
	c.JSON(http.StatusOK, common.YoutubeQuotaDto{
		UsedToday: h.usage.UsedToday(),
		Limit:     h.usage.Limit(),
	})
}
