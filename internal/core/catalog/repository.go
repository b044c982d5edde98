package catalog

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const linkInsertBatch = 500

type (
	// Repository 食譜目錄存取
	Repository interface {
		FindIngredientsOrderedByName(ctx context.Context) ([]Ingredient, error)
		FindIngredientByName(ctx context.Context, name string) (*Ingredient, error)
		FindIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error)
		FindRecipeByID(ctx context.Context, id int64) (*Recipe, error)
		FindRecipesByIDs(ctx context.Context, ids []int64) ([]Recipe, error)
		FindRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredient, error)
		FindRecipeIngredientsByRecipeIDs(ctx context.Context, recipeIDs []int64) ([]RecipeIngredient, error)
		FindRecipeSteps(ctx context.Context, recipeID int64) ([]RecipeStep, error)
		FindIngredientLinks(ctx context.Context) ([]IngredientLink, error)
		CountRecipes(ctx context.Context) (int64, error)
		CountIngredients(ctx context.Context) (int64, error)
		SaveIngredients(ctx context.Context, ingredients []*Ingredient) error
		SaveRecipesBatch(ctx context.Context, recipes []*Recipe) error
		SaveRecipeIngredientsBatch(ctx context.Context, links []RecipeIngredient) error
		SaveRecipeStepsBatch(ctx context.Context, steps []RecipeStep) error
		Ping(ctx context.Context) error
	}

	repository struct {
		db *gorm.DB
	}
)

// NewRepository 創建 gorm 目錄存取
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Migrate 建立/更新目錄資料表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Ingredient{}, &Recipe{}, &RecipeIngredient{}, &RecipeStep{}); err != nil {
		return fmt.Errorf("failed to migrate catalog: %w", err)
	}
	return nil
}

func (r *repository) FindIngredientsOrderedByName(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// FindIngredientByName 不分大小寫查詢，找不到時回傳 nil, nil
func (r *repository) FindIngredientByName(ctx context.Context, name string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var found []Ingredient
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Limit(1).
		Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *repository) FindIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// FindRecipeByID 找不到時回傳 nil, nil
func (r *repository) FindRecipeByID(ctx context.Context, id int64) (*Recipe, error) {
	var found []Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

func (r *repository) FindRecipesByIDs(ctx context.Context, ids []int64) ([]Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []Recipe
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *repository) FindRecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredient, error) {
	return r.FindRecipeIngredientsByRecipeIDs(ctx, []int64{recipeID})
}

func (r *repository) FindRecipeIngredientsByRecipeIDs(ctx context.Context, recipeIDs []int64) ([]RecipeIngredient, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	var links []RecipeIngredient
	if err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Where("recipe_id IN ?", recipeIDs).
		Order("recipe_id asc, id asc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) FindRecipeSteps(ctx context.Context, recipeID int64) ([]RecipeStep, error) {
	var steps []RecipeStep
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("step_order asc, id asc").
		Find(&steps).Error; err != nil {
		return nil, err
	}
	return steps, nil
}

// FindIngredientLinks 載入所有 (食譜, 食材) 組合
func (r *repository) FindIngredientLinks(ctx context.Context) ([]IngredientLink, error) {
	var links []IngredientLink
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("recipes.id AS recipe_id, recipes.name AS recipe_name, recipe_ingredients.ingredient_id AS ingredient_id").
		Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
		Order("recipes.id asc").
		Scan(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) CountRecipes(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Recipe{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Ingredient{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) SaveIngredients(ctx context.Context, ingredients []*Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(ingredients).Error
}

// SaveRecipesBatch 在同一交易中寫入食譜及其食材關聯與步驟
func (r *repository) SaveRecipesBatch(ctx context.Context, recipes []*Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipes).Error; err != nil {
			return fmt.Errorf("save recipes: %w", err)
		}

		var links []RecipeIngredient
		var steps []RecipeStep
		for _, recipe := range recipes {
			for _, link := range recipe.Ingredients {
				link.RecipeID = recipe.ID
				links = append(links, link)
			}
			for _, step := range recipe.Steps {
				step.RecipeID = recipe.ID
				steps = append(steps, step)
			}
		}

		txRepo := &repository{db: tx}
		if err := txRepo.SaveRecipeIngredientsBatch(ctx, links); err != nil {
			return err
		}
		return txRepo.SaveRecipeStepsBatch(ctx, steps)
	})
}

func (r *repository) SaveRecipeIngredientsBatch(ctx context.Context, links []RecipeIngredient) error {
	if len(links) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit("Ingredient").CreateInBatches(&links, linkInsertBatch).Error; err != nil {
		return fmt.Errorf("save recipe ingredients: %w", err)
	}
	return nil
}

func (r *repository) SaveRecipeStepsBatch(ctx context.Context, steps []RecipeStep) error {
	if len(steps) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&steps, linkInsertBatch).Error; err != nil {
		return fmt.Errorf("save recipe steps: %w", err)
	}
	return nil
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
