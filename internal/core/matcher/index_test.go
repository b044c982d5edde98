package matcher

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"fridge-recipe/internal/core/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestStrictAndLoose(t *testing.T) {
	const onion, egg, tofu, pork = 1, 2, 3, 4
	idx := NewIndex([]Entry{
		{RecipeID: 10, Name: "c onion egg", IngredientIDs: []int64{onion, egg}},
		{RecipeID: 11, Name: "a onion", IngredientIDs: []int64{onion}},
		{RecipeID: 12, Name: "b egg tofu", IngredientIDs: []int64{egg, tofu}},
		{RecipeID: 13, Name: "d pork", IngredientIDs: []int64{pork}},
		{RecipeID: 14, Name: "e empty", IngredientIDs: nil},
	})

	tests := []struct {
		name      string
		requested []int64
		strict    []string
		loose     []string
	}{
		{"empty request", nil, nil, nil},
		{"single onion", []int64{onion}, []string{"a onion"}, []string{"a onion", "c onion egg"}},
		{"onion egg", []int64{onion, egg}, []string{"a onion", "c onion egg"}, []string{"a onion", "b egg tofu", "c onion egg"}},
		{"duplicates ignored", []int64{egg, egg, tofu}, []string{"b egg tofu"}, []string{"b egg tofu", "c onion egg"}},
		{"unknown ingredient", []int64{99}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.strict, nilIfEmpty(names(idx.Strict(tt.requested))))
			assert.Equal(t, tt.loose, nilIfEmpty(names(idx.Loose(tt.requested))))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestZeroIngredientRecipeNeverMatches(t *testing.T) {
	idx := NewIndex([]Entry{{RecipeID: 1, Name: "nothing"}})
	assert.Zero(t, idx.Len())
	assert.Empty(t, idx.Strict([]int64{1, 2, 3}))
	assert.Empty(t, idx.Loose([]int64{1, 2, 3}))
}

func TestOrderIsStableByNameThenID(t *testing.T) {
	idx := NewIndex([]Entry{
		{RecipeID: 3, Name: "same", IngredientIDs: []int64{1}},
		{RecipeID: 1, Name: "same", IngredientIDs: []int64{1}},
		{RecipeID: 2, Name: "alpha", IngredientIDs: []int64{1}},
	})
	got := idx.Strict([]int64{1})
	require.Len(t, got, 3)
	assert.Equal(t, []int64{2, 1, 3}, []int64{got[0].RecipeID, got[1].RecipeID, got[2].RecipeID})
}

// 隨機目錄上的完備性：strict 無誤判、無漏判，loose ⊇ strict
func TestMatchProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	const ingredientCount = 12

	for round := 0; round < 50; round++ {
		var entries []Entry
		for id := int64(1); id <= 60; id++ {
			n := r.IntN(4)
			ings := make([]int64, 0, n)
			for i := 0; i < n; i++ {
				ings = append(ings, int64(r.IntN(ingredientCount)+1))
			}
			entries = append(entries, Entry{RecipeID: id, Name: fmt.Sprintf("r%03d", r.IntN(1000)), IngredientIDs: ings})
		}
		idx := NewIndex(entries)

		var requested []int64
		n := r.IntN(6)
		for i := 0; i < n; i++ {
			requested = append(requested, int64(r.IntN(ingredientCount)+1))
		}
		req := toSet(requested)

		strict := idx.Strict(requested)
		loose := idx.Loose(requested)
		strictIDs := make(map[int64]bool)
		for _, e := range strict {
			strictIDs[e.RecipeID] = true
			assert.NotEmpty(t, e.IngredientIDs)
			for _, ing := range e.IngredientIDs {
				_, ok := req[ing]
				assert.True(t, ok, "strict result %d uses ingredient %d outside request", e.RecipeID, ing)
			}
		}
		looseIDs := make(map[int64]bool)
		for _, e := range loose {
			looseIDs[e.RecipeID] = true
		}
		for id := range strictIDs {
			assert.True(t, looseIDs[id], "loose result missing strict match %d", id)
		}

		for _, e := range entries {
			ids := dedupe(e.IngredientIDs)
			if len(ids) == 0 || len(req) == 0 {
				continue
			}
			if covered(ids, req) {
				assert.True(t, strictIDs[e.RecipeID], "strict missed recipe %d", e.RecipeID)
			}
		}

		for i := 1; i < len(strict); i++ {
			assert.LessOrEqual(t, strict[i-1].Name, strict[i].Name)
		}
	}
}

type fakeLinks []catalog.IngredientLink

func (f fakeLinks) FindIngredientLinks(context.Context) ([]catalog.IngredientLink, error) {
	return f, nil
}

func TestLoadGroupsLinksByRecipe(t *testing.T) {
	idx, err := Load(context.Background(), fakeLinks{
		{RecipeID: 1, RecipeName: "egg rice", IngredientID: 5},
		{RecipeID: 1, RecipeName: "egg rice", IngredientID: 6},
		{RecipeID: 2, RecipeName: "rice", IngredientID: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, []string{"rice"}, names(idx.Strict([]int64{6})))
	assert.Equal(t, []string{"egg rice", "rice"}, names(idx.Strict([]int64{5, 6})))
}
