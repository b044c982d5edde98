package seed

import (
	"context"
	"fmt"
	"time"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/pkg/common"

	"go.uber.org/zap"
)

// Loader 啟動時寫入目錄資料，必須在接受請求之前完成
type Loader struct {
	repo catalog.Repository
	cfg  config.SeedConfig
}

// NewLoader 創建種子載入器
func NewLoader(repo catalog.Repository, cfg config.SeedConfig) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 200
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 10
	}
	return &Loader{repo: repo, cfg: cfg}
}

// Seed 依序執行 Bootstrap 與 Run；錯誤只記錄，不中斷啟動
func (l *Loader) Seed(ctx context.Context) {
	if err := l.Bootstrap(ctx); err != nil {
		common.LogWarn("基本目錄載入失敗", zap.Error(err))
		return
	}
	if _, err := l.Run(ctx); err != nil {
		common.LogWarn("食譜種子載入失敗，僅使用基本食譜", zap.Error(err))
	}
}

// Bootstrap 食材表為空時寫入基本食材與手寫食譜
func (l *Loader) Bootstrap(ctx context.Context) error {
	count, err := l.repo.CountIngredients(ctx)
	if err != nil {
		return fmt.Errorf("count ingredients: %w", err)
	}
	if count > 0 {
		return nil
	}

	ingredients := StaticIngredients()
	if err := l.repo.SaveIngredients(ctx, ingredients); err != nil {
		return fmt.Errorf("save static ingredients: %w", err)
	}
	ids := make(map[string]int64, len(ingredients))
	for _, ing := range ingredients {
		ids[ing.Name] = ing.ID
	}

	recipes := StaticRecipes(ids)
	if err := l.repo.SaveRecipesBatch(ctx, recipes); err != nil {
		return fmt.Errorf("save static recipes: %w", err)
	}

	common.LogInfo("基本目錄載入完成",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("recipes", len(recipes)),
	)
	return nil
}

// Run 產生合成目錄並分批寫入，回傳寫入的食譜數。
// 停用或目錄已有超過 Threshold 道食譜時不執行。
func (l *Loader) Run(ctx context.Context) (int, error) {
	if !l.cfg.Enabled {
		common.LogDebug("食譜種子已停用")
		return 0, nil
	}

	count, err := l.repo.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	if count > l.cfg.Threshold {
		common.LogDebug("目錄已有資料，略過種子", zap.Int64("recipes", count))
		return 0, nil
	}

	ingredients, err := l.repo.FindIngredientsOrderedByName(ctx)
	if err != nil {
		return 0, fmt.Errorf("load ingredients: %w", err)
	}
	if len(ingredients) == 0 {
		return 0, nil
	}

	start := time.Now()
	common.LogInfo("開始產生食譜種子",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("expected_recipes", ExpectedCount(len(ingredients))),
		zap.Int("batch_size", l.cfg.BatchSize),
	)

	saved := 0
	batch := make([]*catalog.Recipe, 0, l.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.repo.SaveRecipesBatch(ctx, batch); err != nil {
			return fmt.Errorf("save batch at %d: %w", saved, err)
		}
		saved += len(batch)
		batch = make([]*catalog.Recipe, 0, l.cfg.BatchSize)
		return nil
	}

	for recipe := range Generate(ingredients) {
		batch = append(batch, recipe)
		if len(batch) == l.cfg.BatchSize {
			if err := flush(); err != nil {
				return saved, err
			}
		}
	}
	if err := flush(); err != nil {
		return saved, err
	}

	common.LogInfo("食譜種子載入完成",
		zap.Int("recipes", saved),
		zap.Duration("耗時", time.Since(start)),
	)
	return saved, nil
}
