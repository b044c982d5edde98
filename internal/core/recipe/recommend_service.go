package recipe

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/core/matcher"
	"fridge-recipe/internal/pkg/common"
	"fridge-recipe/internal/pkg/metrics"

	"go.uber.org/zap"
)

// MaxRecipes 推薦食譜上限
const MaxRecipes = 10

// RecommendService 依食材推薦影片與食譜
type RecommendService struct {
	repo     catalog.Repository
	matcher  RecipeMatcher
	videos   VideoSearcher
	external ExternalRecipeSource
	shuffle  func(n int, swap func(i, j int))
}

// Option 服務選項
type Option func(*RecommendService)

// WithShuffle 替換洗牌函式
func WithShuffle(shuffle func(n int, swap func(i, j int))) Option {
	return func(s *RecommendService) { s.shuffle = shuffle }
}

// NewRecommendService 創建推薦服務；external 可為 nil
func NewRecommendService(repo catalog.Repository, m RecipeMatcher, videos VideoSearcher, external ExternalRecipeSource, opts ...Option) *RecommendService {
	s := &RecommendService{
		repo:     repo,
		matcher:  m,
		videos:   videos,
		external: external,
		shuffle:  rand.Shuffle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recommend 推薦流程
//
// 名稱不分大小寫解析成 ID（找不到的略過），影片搜尋使用目錄名稱加上未解析的原始名稱。
// 至少有一個 ID 時才比對目錄；結果洗牌後取前 10 個，不足時以外部搜尋補滿。
// 影片搜尋失敗只記錄原因，不視為錯誤。
func (s *RecommendService) Recommend(ctx context.Context, req common.RecommendRequest) (*common.RecommendResponse, error) {
	strict := req.Strict()

	ids, err := s.resolveIDs(ctx, req)
	if err != nil {
		return nil, err
	}
	names, err := s.queryNames(ctx, ids, req.IngredientNames)
	if err != nil {
		return nil, err
	}

	videoResult := s.videos.SearchByIngredients(ctx, names, strict)
	videos := make([]common.YoutubeRecommendationDto, 0, len(videoResult.Videos))
	for _, v := range videoResult.Videos {
		videos = append(videos, common.YoutubeRecommendationDto{VideoID: v.ID, Title: v.Title})
	}
	var reason *string
	if videoResult.ErrorReason != "" {
		reason = &videoResult.ErrorReason
	}
	if len(videos) == 0 && (len(ids) > 0 || reason != nil) {
		common.LogWarn("沒有 YouTube 推薦結果",
			zap.Strings("ingredients", names),
			zap.Bool("strict", strict),
			zap.String("reason", videoResult.ErrorReason),
		)
	}

	recipes := []common.RecipeDto{}
	if len(ids) > 0 {
		if recipes, err = s.matchRecipes(ctx, ids, strict); err != nil {
			return nil, err
		}
		recipes = s.fillExternal(ctx, recipes, names)
	}

	mode := "loose"
	if strict {
		mode = "strict"
	}
	metrics.RecommendationsTotal.WithLabelValues(mode).Inc()

	return &common.RecommendResponse{
		YoutubeRecommendations: videos,
		YoutubeErrorReason:     reason,
		RecipeRecommendations:  recipes,
	}, nil
}

// resolveIDs 請求中的 ID 加上名稱解析出的 ID，保持首次出現順序
func (s *RecommendService) resolveIDs(ctx context.Context, req common.RecommendRequest) ([]int64, error) {
	ids := make([]int64, 0, len(req.IngredientIDs)+len(req.IngredientNames))
	seen := make(map[int64]struct{}, cap(ids))
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, id := range req.IngredientIDs {
		add(id)
	}
	for _, name := range req.IngredientNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ing, err := s.repo.FindIngredientByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve ingredient %q: %w", name, err)
		}
		if ing != nil {
			add(ing.ID)
		}
	}
	return ids, nil
}

// queryNames 目錄中的食材名稱，再補上目錄裡沒有的原始名稱（不分大小寫去重）
func (s *RecommendService) queryNames(ctx context.Context, ids []int64, rawNames []string) ([]string, error) {
	found, err := s.repo.FindIngredientsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	byID := make(map[int64]string, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing.Name
	}

	names := make([]string, 0, len(ids)+len(rawNames))
	seen := make(map[string]struct{}, cap(names))
	add := func(name string) {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok || name == "" {
			return
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	for _, id := range ids {
		add(byID[id])
	}
	for _, name := range rawNames {
		add(strings.TrimSpace(name))
	}
	return names, nil
}

func (s *RecommendService) matchRecipes(ctx context.Context, ids []int64, strict bool) ([]common.RecipeDto, error) {
	var entries []matcher.Entry
	if strict {
		entries = s.matcher.Strict(ids)
	} else {
		entries = s.matcher.Loose(ids)
	}
	if len(entries) == 0 {
		return []common.RecipeDto{}, nil
	}

	s.shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
	if len(entries) > MaxRecipes {
		entries = entries[:MaxRecipes]
	}

	recipeIDs := make([]int64, 0, len(entries))
	for _, e := range entries {
		recipeIDs = append(recipeIDs, e.RecipeID)
	}
	recipes, err := s.repo.FindRecipesByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	links, err := s.repo.FindRecipeIngredientsByRecipeIDs(ctx, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load recipe ingredients: %w", err)
	}

	byID := make(map[int64]catalog.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	namesByRecipe := make(map[int64][]string, len(recipes))
	for _, link := range links {
		namesByRecipe[link.RecipeID] = append(namesByRecipe[link.RecipeID], link.Ingredient.Name)
	}

	out := make([]common.RecipeDto, 0, len(recipeIDs))
	for _, id := range recipeIDs {
		r, ok := byID[id]
		if !ok {
			continue
		}
		ingredientNames := namesByRecipe[id]
		if ingredientNames == nil {
			ingredientNames = []string{}
		}
		out = append(out, common.RecipeDto{
			ID:              r.ID,
			Name:            r.Name,
			Description:     r.Description,
			ImageURL:        r.ImageURL,
			MainCategory:    r.MainCategory,
			SubCategory:     r.SubCategory,
			IngredientNames: ingredientNames,
		})
	}
	return out, nil
}

// fillExternal 本地結果不足上限時以外部搜尋補上，接在本地結果之後
func (s *RecommendService) fillExternal(ctx context.Context, recipes []common.RecipeDto, names []string) []common.RecipeDto {
	if s.external == nil || len(recipes) >= MaxRecipes || len(names) == 0 {
		return recipes
	}
	for _, r := range s.external.FindRecipesByIngredients(ctx, names) {
		if len(recipes) == MaxRecipes {
			break
		}
		recipes = append(recipes, r)
	}
	return recipes
}
