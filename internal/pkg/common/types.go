package common

// IngredientDto 食材
type IngredientDto struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RecipeDto 推薦列表中的食譜；外部來源的 ID 為負數
type RecipeDto struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	MainCategory    string   `json:"mainCategory"`
	SubCategory     string   `json:"subCategory"`
	IngredientNames []string `json:"ingredientNames"`
	YoutubeVideoID  string   `json:"youtubeVideoId,omitempty"`
}

// RecipeDetailDto 食譜詳情
type RecipeDetailDto struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	ImageURL              string   `json:"imageUrl,omitempty"`
	MainCategory          string   `json:"mainCategory"`
	SubCategory           string   `json:"subCategory"`
	IngredientsWithAmount []string `json:"ingredientsWithAmount"`
	Steps                 []string `json:"steps"`
	YoutubeVideoID        *string  `json:"youtubeVideoId"`
	YoutubeTitle          *string  `json:"youtubeTitle"`
}

// RecommendRequest 推薦請求
type RecommendRequest struct {
	IngredientIDs   []int64  `json:"ingredientIds" binding:"omitempty,max=100"`
	IngredientNames []string `json:"ingredientNames" binding:"omitempty,max=100,dive,max=100"`
	// true: 只用所選食材；false/null: 包含所選食材即可
	StrictOnly *bool `json:"strictOnly"`
}

// Strict 回傳 strictOnly 是否為 true
func (r RecommendRequest) Strict() bool {
	return r.StrictOnly != nil && *r.StrictOnly
}

// YoutubeRecommendationDto YouTube 影片
type YoutubeRecommendationDto struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}

// RecommendResponse 推薦結果
type RecommendResponse struct {
	YoutubeRecommendations []YoutubeRecommendationDto `json:"youtubeRecommendations"`
	YoutubeErrorReason     *string                    `json:"youtubeErrorReason"`
	RecipeRecommendations  []RecipeDto                `json:"recipeRecommendations"`
}

// YoutubeRecipeStepsDto 從字幕或說明欄整理出的步驟
type YoutubeRecipeStepsDto struct {
	VideoID string   `json:"videoId"`
	Title   string   `json:"title"`
	Steps   []string `json:"steps"`
}

// YoutubeQuotaDto YouTube 當日配額估計
type YoutubeQuotaDto struct {
	UsedToday int `json:"usedToday"`
	Limit     int `json:"limit"`
}
