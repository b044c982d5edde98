// Package seed 產生合成食譜目錄。
//
// 對排序後食材清單中每個大小為 1、2、3 的組合，各產生 RecipesPerCombo 道
// 只使用該組合的食譜，因此任何不超過三種食材的 strict 查詢都至少有
// RecipesPerCombo 筆結果。組合以 iter.Seq 逐一產生，不會一次展開。
package seed

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"fridge-recipe/internal/core/catalog"
)

const (
	// RecipesPerCombo 每個食材組合產生的食譜數
	RecipesPerCombo = 10
	// MaxComboSize 組合最大大小
	MaxComboSize = 3

	mainCategory = "한식"
)

// Suffixes 料理名稱後綴，依 (comboIndex*10 + replica) 循環取用
var Suffixes = []string{"볶음", "찌개", "구이", "전", "밥", "무침", "조림", "볶음밥", "덮밥", "국", "탕", "스프", "샐러드", "튀김", "찜"}

var subCategories = map[string]string{
	"밥":   "밥류",
	"볶음밥": "밥류",
	"덮밥":  "밥류",
	"찌개":  "국물류",
	"국":   "국물류",
	"탕":   "국물류",
	"스프":  "국물류",
	"샐러드": "샐러드",
}

// SubCategoryFor 後綴對應的子分類，未列出者為반찬
func SubCategoryFor(suffix string) string {
	if c, ok := subCategories[suffix]; ok {
		return c
	}
	return "반찬"
}

// StepsFor 依後綴類型產生步驟，第一步列出食材
func StepsFor(names []string, suffix string) []string {
	steps := []string{strings.Join(names, ", ") + " 재료를 준비한다."}
	switch {
	case strings.Contains(suffix, "찌개") || strings.Contains(suffix, "국") || strings.Contains(suffix, "탕"):
		steps = append(steps, "냄비에 물을 올리고 재료를 넣어 끓인다.", "간장·소금으로 간을 맞춘다.")
	case strings.Contains(suffix, "볶음") || strings.Contains(suffix, "밥"):
		steps = append(steps, "팬에 기름을 두르고 재료를 넣어 볶는다.", "불을 끄고 참기름을 넣어 비빈다.")
	case strings.Contains(suffix, "전") || strings.Contains(suffix, "튀김"):
		steps = append(steps, "재료를 썰어 달걀물·부침가루를 묻힌다.", "팬에 기름을 두르고 앞뒤로 굽는다.")
	case strings.Contains(suffix, "구이") || strings.Contains(suffix, "찜"):
		steps = append(steps, "재료에 양념을 발라 10분 재운다.", "그릴이나 찜기에 익힌다.")
	default:
		steps = append(steps, "재료를 넣어 익힌다.", "완성한다.")
	}
	return steps
}

// RecipeName 組合名稱 + 後綴，第二道起加上編號
func RecipeName(names []string, suffix string, replica int) string {
	name := strings.Join(names, " ") + " " + suffix
	if replica > 0 {
		name += fmt.Sprintf(" %d", replica+1)
	}
	return name
}

// Combinations 以字典序產生從 n 個索引中取 k 個的組合
func Combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k <= 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(slices.Clone(idx)) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// ExpectedCount n 種食材時 Generate 產生的食譜總數
func ExpectedCount(n int) int {
	total := 0
	for k := 1; k <= MaxComboSize; k++ {
		total += binomial(n, k)
	}
	return total * RecipesPerCombo
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// Generate 依名稱排序後逐一產生合成食譜（含食材關聯與步驟，尚未寫入）
func Generate(ingredients []catalog.Ingredient) iter.Seq[*catalog.Recipe] {
	sorted := slices.Clone(ingredients)
	slices.SortStableFunc(sorted, func(a, b catalog.Ingredient) int {
		return strings.Compare(a.Name, b.Name)
	})
	sorted = slices.CompactFunc(sorted, func(a, b catalog.Ingredient) bool {
		return a.Name == b.Name
	})

	return func(yield func(*catalog.Recipe) bool) {
		for size := 1; size <= MaxComboSize; size++ {
			comboIndex := 0
			for combo := range Combinations(len(sorted), size) {
				members := make([]catalog.Ingredient, len(combo))
				names := make([]string, len(combo))
				for i, pos := range combo {
					members[i] = sorted[pos]
					names[i] = sorted[pos].Name
				}
				for replica := 0; replica < RecipesPerCombo; replica++ {
					suffix := Suffixes[(comboIndex*RecipesPerCombo+replica)%len(Suffixes)]
					if !yield(buildRecipe(members, names, suffix, replica)) {
						return
					}
				}
				comboIndex++
			}
		}
	}
}

func buildRecipe(members []catalog.Ingredient, names []string, suffix string, replica int) *catalog.Recipe {
	recipe := &catalog.Recipe{
		Name:         RecipeName(names, suffix, replica),
		Description:  fmt.Sprintf("%s(으)로 만드는 %s 요리.", strings.Join(names, ", "), suffix),
		MainCategory: mainCategory,
		SubCategory:  SubCategoryFor(suffix),
	}
	for _, ing := range members {
		recipe.Ingredients = append(recipe.Ingredients, catalog.RecipeIngredient{IngredientID: ing.ID})
	}
	for i, text := range StepsFor(names, suffix) {
		recipe.Steps = append(recipe.Steps, catalog.RecipeStep{StepOrder: i + 1, StepText: text})
	}
	return recipe
}
