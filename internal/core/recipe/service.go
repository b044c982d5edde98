// Package recipe 組合食譜推薦與食譜詳情。
package recipe

import (
	"context"

	"fridge-recipe/internal/core/matcher"
	"fridge-recipe/internal/core/youtube"
	"fridge-recipe/internal/pkg/common"
)

// VideoSearcher 影片搜尋
type VideoSearcher interface {
	SearchByIngredients(ctx context.Context, names []string, strict bool) youtube.SearchResult
	SearchTopVideo(ctx context.Context, name string) *youtube.Video
}

// ExternalRecipeSource 外部食譜來源
type ExternalRecipeSource interface {
	FindRecipesByIngredients(ctx context.Context, names []string) []common.RecipeDto
	GetRecipeDetail(ctx context.Context, id int64) *common.RecipeDetailDto
}

// RecipeMatcher 食材集合比對
type RecipeMatcher interface {
	Strict(ingredientIDs []int64) []matcher.Entry
	Loose(ingredientIDs []int64) []matcher.Entry
}
