package recipe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"fridge-recipe/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender 推薦服務
type Recommender interface {
	Recommend(ctx context.Context, req common.RecommendRequest) (*common.RecommendResponse, error)
}

// DetailResolver 詳情服務
type DetailResolver interface {
	GetDetail(ctx context.Context, id *int64) (*common.RecipeDetailDto, error)
}

// Handler 食譜處理程序
type Handler struct {
	recommender Recommender
	details     DetailResolver
}

// NewHandler 創建食譜處理程序
func NewHandler(recommender Recommender, details DetailResolver) *Handler {
	return &Handler{recommender: recommender, details: details}
}

// Recommend POST /api/recipes/recommend
func (h *Handler) Recommend(c *gin.Context) {
	requestID := requestid.Get(c)

	// 空的請求體視為 {}
	var req common.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		common.AbortWithError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	common.LogInfo("開始處理食譜推薦請求",
		zap.String("request_id", requestID),
		zap.Int("ingredient_ids", len(req.IngredientIDs)),
		zap.Int("ingredient_names", len(req.IngredientNames)),
		zap.Bool("strict", req.Strict()),
	)

	resp, err := h.recommender.Recommend(c.Request.Context(), req)
	if err != nil {
		common.LogError("食譜推薦失敗", zap.Error(err), zap.String("request_id", requestID))
		common.AbortWithError(c, common.ErrInternalError.Wrap(err))
		return
	}

	common.LogInfo("食譜推薦完成",
		zap.String("request_id", requestID),
		zap.Int("videos", len(resp.YoutubeRecommendations)),
		zap.Int("recipes", len(resp.RecipeRecommendations)),
	)
	c.JSON(http.StatusOK, resp)
}

// Detail GET /api/recipes/:id/detail；負數 ID 為外部食譜
func (h *Handler) Detail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		common.AbortWithError(c, common.ErrInvalidRecipeID.Wrap(err))
		return
	}

	detail, err := h.details.GetDetail(c.Request.Context(), &id)
	if err != nil {
		common.LogError("食譜詳情取得失敗",
			zap.Int64("recipe_id", id),
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		common.AbortWithError(c, common.ErrInternalError.Wrap(err))
		return
	}
	if detail == nil {
		common.AbortWithError(c, common.ErrRecipeNotFound)
		return
	}
	c.JSON(http.StatusOK, detail)
}
