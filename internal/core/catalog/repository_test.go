package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"fridge-recipe/internal/infrastructure/config"
	"fridge-recipe/internal/infrastructure/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "catalog.db"),
	}, false)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, Migrate(db))
	return db
}

func seedIngredients(t *testing.T, repo Repository, names ...string) map[string]int64 {
	t.Helper()
	ingredients := make([]*Ingredient, 0, len(names))
	for _, name := range names {
		ingredients = append(ingredients, &Ingredient{Name: name, Category: "test"})
	}
	require.NoError(t, repo.SaveIngredients(context.Background(), ingredients))
	ids := make(map[string]int64, len(names))
	for _, ing := range ingredients {
		ids[ing.Name] = ing.ID
	}
	return ids
}

func TestRepositoryIngredients(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))
	ids := seedIngredients(t, repo, "onion", "Egg", "tofu")

	list, err := repo.FindIngredientsOrderedByName(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Egg", list[0].Name)
	assert.Equal(t, "tofu", list[2].Name)

	found, err := repo.FindIngredientByName(ctx, "  egg ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ids["Egg"], found.ID)

	missing, err := repo.FindIngredientByName(ctx, "dragonfruit")
	require.NoError(t, err)
	assert.Nil(t, missing)

	byIDs, err := repo.FindIngredientsByIDs(ctx, []int64{ids["tofu"], ids["onion"]})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	count, err := repo.CountIngredients(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRepositorySaveRecipesBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))
	ids := seedIngredients(t, repo, "onion", "egg")

	recipes := []*Recipe{
		{
			Name: "onion egg stir-fry",
			Ingredients: []RecipeIngredient{
				{IngredientID: ids["onion"], Amount: "1"},
				{IngredientID: ids["egg"]},
			},
			Steps: []RecipeStep{
				{StepOrder: 2, StepText: "second"},
				{StepOrder: 1, StepText: "first"},
			},
		},
		{
			Name:        "egg soup",
			Ingredients: []RecipeIngredient{{IngredientID: ids["egg"], Amount: "2개"}},
			Steps:       []RecipeStep{{StepOrder: 1, StepText: "boil"}},
		},
	}
	require.NoError(t, repo.SaveRecipesBatch(ctx, recipes))
	require.NotZero(t, recipes[0].ID)
	require.NotZero(t, recipes[1].ID)

	count, err := repo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	recipe, err := repo.FindRecipeByID(ctx, recipes[0].ID)
	require.NoError(t, err)
	require.NotNil(t, recipe)
	assert.Equal(t, "onion egg stir-fry", recipe.Name)

	links, err := repo.FindRecipeIngredients(ctx, recipes[0].ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "onion 1", links[0].DisplayName())
	assert.Equal(t, "egg", links[1].DisplayName())

	steps, err := repo.FindRecipeSteps(ctx, recipes[0].ID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "first", steps[0].StepText)
	assert.Equal(t, "second", steps[1].StepText)

	bulk, err := repo.FindRecipeIngredientsByRecipeIDs(ctx, []int64{recipes[0].ID, recipes[1].ID})
	require.NoError(t, err)
	assert.Len(t, bulk, 3)

	all, err := repo.FindIngredientLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for _, link := range all {
		assert.NotEmpty(t, link.RecipeName)
	}

	none, err := repo.FindRecipeByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, repo.Ping(ctx))
}

func TestRepositorySaveRecipesBatchRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(newTestDB(t))

	// 不存在的食材違反外鍵，整批回滾
	err := repo.SaveRecipesBatch(ctx, []*Recipe{{
		Name:        "ghost",
		Ingredients: []RecipeIngredient{{IngredientID: 424242}},
	}})
	require.Error(t, err)

	count, err := repo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
