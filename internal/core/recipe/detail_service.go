package recipe

import (
	"context"
	"fmt"
	"strings"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// DetailService 食譜詳情
type DetailService struct {
	repo     catalog.Repository
	videos   VideoSearcher
	external ExternalRecipeSource
}

// NewDetailService 創建詳情服務；videos 與 external 可為 nil
func NewDetailService(repo catalog.Repository, videos VideoSearcher, external ExternalRecipeSource) *DetailService {
	return &DetailService{repo: repo, videos: videos, external: external}
}

// GetDetail id 為 nil 或找不到時回傳 nil, nil；只有目錄讀取失敗才回傳錯誤
func (s *DetailService) GetDetail(ctx context.Context, id *int64) (*common.RecipeDetailDto, error) {
	if id == nil {
		return nil, nil
	}
	return s.Resolve(ctx, ParseRecipeRef(*id))
}

// Resolve 依來源組合詳情，並附上最佳努力的影片
func (s *DetailService) Resolve(ctx context.Context, ref RecipeRef) (*common.RecipeDetailDto, error) {
	var (
		detail *common.RecipeDetailDto
		err    error
	)
	if ref.IsExternal() {
		detail = s.externalDetail(ctx, ref.ID)
	} else {
		detail, err = s.localDetail(ctx, ref.ID)
	}
	if err != nil || detail == nil {
		return nil, err
	}

	s.attachVideo(ctx, detail)
	return detail, nil
}

func (s *DetailService) localDetail(ctx context.Context, id int64) (*common.RecipeDetailDto, error) {
	r, err := s.repo.FindRecipeByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load recipe %d: %w", id, err)
	}
	if r == nil {
		return nil, nil
	}

	links, err := s.repo.FindRecipeIngredients(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients %d: %w", id, err)
	}
	steps, err := s.repo.FindRecipeSteps(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("load recipe steps %d: %w", id, err)
	}

	ingredients := make([]string, 0, len(links))
	for _, link := range links {
		ingredients = append(ingredients, link.DisplayName())
	}
	stepTexts := make([]string, 0, len(steps))
	for _, step := range steps {
		stepTexts = append(stepTexts, step.StepText)
	}

	return &common.RecipeDetailDto{
		ID:                    r.ID,
		Name:                  r.Name,
		Description:           r.Description,
		ImageURL:              r.ImageURL,
		MainCategory:          r.MainCategory,
		SubCategory:           r.SubCategory,
		IngredientsWithAmount: ingredients,
		Steps:                 stepTexts,
	}, nil
}

func (s *DetailService) externalDetail(ctx context.Context, id int64) *common.RecipeDetailDto {
	if s.external == nil {
		return nil
	}
	return s.external.GetRecipeDetail(ctx, id)
}

func (s *DetailService) attachVideo(ctx context.Context, detail *common.RecipeDetailDto) {
	if s.videos == nil || strings.TrimSpace(detail.Name) == "" {
		return
	}
	video := s.videos.SearchTopVideo(ctx, detail.Name)
	if video == nil {
		common.LogDebug("食譜沒有對應影片", zap.Int64("recipe_id", detail.ID), zap.String("name", detail.Name))
		return
	}
	detail.YoutubeVideoID = &video.ID
	detail.YoutubeTitle = &video.Title
}
