// Package spoonacular 以 Spoonacular API 即時搜尋外部食譜。
//
// 每個實際發出的請求都先經過每日配額；沒有金鑰或配額用完時不發請求，
// 直接回傳空結果。外部食譜的 ID 以負數表示。
package spoonacular

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fridge-recipe/internal/core/quota"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/infrastructure/httpclient"
	"fridge-recipe/internal/pkg/common"
	"fridge-recipe/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	serviceName = "spoonacular"

	// SearchNumber 每次搜尋要求的食譜數
	SearchNumber = 10

	MainCategory = "외부"
	SubCategory  = "Spoonacular"
)

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Client Spoonacular 客戶端
type Client struct {
	http  *resty.Client
	cfg   config.SpoonacularConfig
	limit quota.Limiter
	noKey *common.OnceNotice
}

// Option 客戶端選項
type Option func(*Client)

// WithNoKeyNotice 共用的「缺少金鑰」一次性警告
func WithNoKeyNotice(n *common.OnceNotice) Option {
	return func(c *Client) { c.noKey = n }
}

// NewClient 創建客戶端；limiter 為 nil 時使用 cfg.DailyQuota 的記憶體計數
func NewClient(httpClient *resty.Client, cfg config.SpoonacularConfig, limiter quota.Limiter, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.spoonacular.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://img.spoonacular.com/recipes/"
	}
	if limiter == nil {
		limiter = quota.NewDailyLimiter(cfg.DailyQuota, time.Local)
	}

	c := &Client{
		http:  httpClient,
		cfg:   cfg,
		limit: limiter,
		noKey: common.NewOnceNotice("Spoonacular API 金鑰未設定，外部食譜搜尋停用"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasKey 是否設定了非空白金鑰
func (c *Client) HasKey() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// FindRecipesByIngredients 以食材名稱搜尋外部食譜，任何失敗都回傳空列表
func (c *Client) FindRecipesByIngredients(ctx context.Context, names []string) []common.RecipeDto {
	const op = "find_by_ingredients"
	if !c.HasKey() {
		c.warnNoKey(op)
		return []common.RecipeDto{}
	}
	terms := NormalizeIngredients(names)
	if len(terms) == 0 {
		return []common.RecipeDto{}
	}
	if !c.allow(ctx, op) {
		return []common.RecipeDto{}
	}

	var found []foundRecipe
	err := c.get(ctx, op, "/recipes/findByIngredients", map[string]string{
		"ingredients": strings.Join(terms, ","),
		"number":      strconv.Itoa(SearchNumber),
		"ranking":     "1",
	}, &found)
	if err != nil {
		common.LogWarn("Spoonacular 食材搜尋失敗",
			zap.Strings("ingredients", terms),
			zap.Error(err),
		)
		return []common.RecipeDto{}
	}

	out := make([]common.RecipeDto, 0, len(found))
	for _, item := range found {
		if item.ID <= 0 {
			continue
		}
		ingredients := make([]string, 0, len(item.UsedIngredients)+len(item.MissedIngredients))
		for _, list := range [][]namedIngredient{item.UsedIngredients, item.MissedIngredients} {
			for _, ing := range list {
				if name := strings.TrimSpace(ing.Name); name != "" {
					ingredients = append(ingredients, name)
				}
			}
		}
		out = append(out, common.RecipeDto{
			ID:              -item.ID,
			Name:            item.Title,
			ImageURL:        c.imageURL(item.Image),
			MainCategory:    MainCategory,
			SubCategory:     SubCategory,
			IngredientNames: ingredients,
		})
	}
	return out
}

// GetRecipeDetail 外部食譜詳情；id 為正數的 Spoonacular ID，失敗回傳 nil
func (c *Client) GetRecipeDetail(ctx context.Context, id int64) *common.RecipeDetailDto {
	const op = "recipe_information"
	if id <= 0 {
		return nil
	}
	if !c.HasKey() {
		c.warnNoKey(op)
		return nil
	}
	if !c.allow(ctx, op) {
		return nil
	}

	var info recipeInformation
	path := fmt.Sprintf("/recipes/%d/information", id)
	if err := c.get(ctx, op, path, nil, &info); err != nil {
		common.LogWarn("Spoonacular 食譜詳情取得失敗", zap.Int64("spoonacular_id", id), zap.Error(err))
		return nil
	}

	ingredients := make([]string, 0, len(info.ExtendedIngredients))
	for _, ing := range info.ExtendedIngredients {
		if s := strings.TrimSpace(ing.Original); s != "" {
			ingredients = append(ingredients, s)
		}
	}

	steps := stepsFromBlocks(info.AnalyzedInstructions)
	if len(steps) == 0 {
		steps = c.analyzedInstructions(ctx, id)
	}
	if len(steps) == 0 {
		if text := StripHTML(info.Instructions); text != "" {
			steps = []string{text}
		}
	}

	return &common.RecipeDetailDto{
		ID:                    -id,
		Name:                  info.Title,
		Description:           StripHTML(info.Summary),
		ImageURL:              c.imageURL(info.Image),
		MainCategory:          MainCategory,
		SubCategory:           SubCategory,
		IngredientsWithAmount: ingredients,
		Steps:                 steps,
	}
}

// analyzedInstructions information 沒有步驟時的補充請求，也計入配額
func (c *Client) analyzedInstructions(ctx context.Context, id int64) []string {
	const op = "analyzed_instructions"
	if !c.allow(ctx, op) {
		return []string{}
	}
	var blocks []instructionBlock
	path := fmt.Sprintf("/recipes/%d/analyzedInstructions", id)
	if err := c.get(ctx, op, path, nil, &blocks); err != nil {
		common.LogDebug("Spoonacular 步驟取得失敗", zap.Int64("spoonacular_id", id), zap.Error(err))
		return []string{}
	}
	return stepsFromBlocks(blocks)
}

func (c *Client) warnNoKey(op string) {
	c.noKey.Warn(zap.String("operation", op))
	metrics.RecordExternalCall(serviceName, op, metrics.OutcomeNoKey, 0)
}

func (c *Client) allow(ctx context.Context, op string) bool {
	if c.limit.Allow(ctx) {
		return true
	}
	common.LogDebug("Spoonacular 每日配額已用完，略過請求",
		zap.String("operation", op),
		zap.Int("limit", c.limit.Limit()),
	)
	metrics.RecordExternalCall(serviceName, op, metrics.OutcomeQuota, 0)
	return false
}

func (c *Client) get(ctx context.Context, op, path string, params map[string]string, out interface{}) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("apiKey", c.cfg.APIKey).
		Get(c.cfg.BaseURL + path)
	if err == nil && resp.IsError() {
		err = fmt.Errorf("status %d", resp.StatusCode())
	}
	duration := time.Since(start)

	if err != nil {
		err = httpclient.RedactURL(err, path)
		metrics.RecordExternalCall(serviceName, op, metrics.OutcomeError, duration)
		common.LogExternalCall(serviceName, op, duration, err)
		return err
	}
	metrics.RecordExternalCall(serviceName, op, metrics.OutcomeSuccess, duration)
	common.LogExternalCall(serviceName, op, duration, nil)

	return c.http.JSONUnmarshal(resp.Body(), out)
}

func (c *Client) imageURL(image string) string {
	image = strings.TrimSpace(image)
	if image == "" || strings.HasPrefix(image, "http") {
		return image
	}
	return c.cfg.ImageBaseURL + image
}

func stepsFromBlocks(blocks []instructionBlock) []string {
	steps := make([]string, 0)
	for _, block := range blocks {
		for _, s := range block.Steps {
			if text := strings.TrimSpace(s.Step); text != "" {
				steps = append(steps, text)
			}
		}
	}
	return steps
}

// StripHTML 去除標籤並合併空白
func StripHTML(s string) string {
	s = htmlTag.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
