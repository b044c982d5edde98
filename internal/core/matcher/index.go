// Package matcher 以食材集合比對食譜目錄。
//
// Index 在啟動時（種子資料寫入之後）建立一次，之後唯讀，可安全並發使用。
package matcher

import (
	"cmp"
	"context"
	"slices"

	"fridge-recipe/internal/core/catalog"
)

// Entry 一道食譜及其食材 ID 集合
type Entry struct {
	RecipeID      int64
	Name          string
	IngredientIDs []int64
}

// Index 食材 → 食譜的倒排索引
type Index struct {
	entries      map[int64]*Entry
	byIngredient map[int64][]int64
}

// NewIndex 由食譜項目建立索引；沒有任何食材的食譜不納入
func NewIndex(entries []Entry) *Index {
	idx := &Index{
		entries:      make(map[int64]*Entry, len(entries)),
		byIngredient: make(map[int64][]int64),
	}
	for _, e := range entries {
		ids := dedupe(e.IngredientIDs)
		if len(ids) == 0 {
			continue
		}
		entry := &Entry{RecipeID: e.RecipeID, Name: e.Name, IngredientIDs: ids}
		if prev, ok := idx.entries[e.RecipeID]; ok {
			entry.IngredientIDs = dedupe(append(prev.IngredientIDs, ids...))
			idx.unlink(prev)
		}
		idx.entries[e.RecipeID] = entry
		for _, ing := range entry.IngredientIDs {
			idx.byIngredient[ing] = append(idx.byIngredient[ing], entry.RecipeID)
		}
	}
	return idx
}

// LinkSource 提供 (食譜, 食材) 組合
type LinkSource interface {
	FindIngredientLinks(ctx context.Context) ([]catalog.IngredientLink, error)
}

// Load 從目錄載入索引
func Load(ctx context.Context, src LinkSource) (*Index, error) {
	links, err := src.FindIngredientLinks(ctx)
	if err != nil {
		return nil, err
	}
	return NewIndex(EntriesFromLinks(links)), nil
}

// EntriesFromLinks 將扁平的組合列依食譜合併
func EntriesFromLinks(links []catalog.IngredientLink) []Entry {
	pos := make(map[int64]int)
	var entries []Entry
	for _, l := range links {
		i, ok := pos[l.RecipeID]
		if !ok {
			i = len(entries)
			pos[l.RecipeID] = i
			entries = append(entries, Entry{RecipeID: l.RecipeID, Name: l.RecipeName})
		}
		entries[i].IngredientIDs = append(entries[i].IngredientIDs, l.IngredientID)
	}
	return entries
}

// Len 索引中的食譜數
func (x *Index) Len() int {
	return len(x.entries)
}

// Strict 回傳食材集合完全包含於 ingredientIDs 的食譜，依名稱排序
func (x *Index) Strict(ingredientIDs []int64) []Entry {
	requested := toSet(ingredientIDs)
	if len(requested) == 0 {
		return nil
	}

	var out []Entry
	for _, recipeID := range x.candidates(requested) {
		entry := x.entries[recipeID]
		if covered(entry.IngredientIDs, requested) {
			out = append(out, *entry)
		}
	}
	sortByName(out)
	return out
}

// Loose 回傳至少包含一個所選食材的食譜，依名稱排序
func (x *Index) Loose(ingredientIDs []int64) []Entry {
	requested := toSet(ingredientIDs)
	if len(requested) == 0 {
		return nil
	}

	candidates := x.candidates(requested)
	out := make([]Entry, 0, len(candidates))
	for _, recipeID := range candidates {
		out = append(out, *x.entries[recipeID])
	}
	sortByName(out)
	return out
}

// candidates 與所選食材有交集的食譜 ID（不重複）
func (x *Index) candidates(requested map[int64]struct{}) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for ing := range requested {
		for _, recipeID := range x.byIngredient[ing] {
			if _, ok := seen[recipeID]; ok {
				continue
			}
			seen[recipeID] = struct{}{}
			ids = append(ids, recipeID)
		}
	}
	return ids
}

func (x *Index) unlink(entry *Entry) {
	for _, ing := range entry.IngredientIDs {
		x.byIngredient[ing] = slices.DeleteFunc(x.byIngredient[ing], func(id int64) bool {
			return id == entry.RecipeID
		})
	}
}

func covered(ids []int64, requested map[int64]struct{}) bool {
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if _, ok := requested[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func sortByName(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.RecipeID, b.RecipeID))
	})
}
