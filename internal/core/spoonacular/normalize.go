package spoonacular

import "strings"

// MaxQueryIngredients 送往搜尋的食材上限
const MaxQueryIngredients = 20

// koToEn 韓文食材名稱對應 Spoonacular 的英文詞彙
var koToEn = map[string]string{
	"돼지고기": "pork",
	"소고기":  "beef",
	"닭고기":  "chicken",
	"베이컨":  "bacon",
	"달걀":   "egg",
	"참치캔":  "tuna",
	"스팸":   "spam",
	"두부":   "tofu",
	"양파":   "onion",
	"감자":   "potato",
	"당근":   "carrot",
	"대파":   "green onion",
	"마늘":   "garlic",
	"깻잎":   "perilla",
	"애호박":  "zucchini",
	"버섯":   "mushroom",
	"콩나물":  "bean sprouts",
	"시금치":  "spinach",
	"김치":   "kimchi",
	"고추장":  "gochujang",
	"간장":   "soy sauce",
	"고춧가루": "red pepper flakes",
	"된장":   "doenjang",
	"참기름":  "sesame oil",
	"라면":   "ramen",
	"밥":    "rice",
}

// Translate 查表翻譯，沒有對應時回傳原字串
func Translate(name string) string {
	name = strings.TrimSpace(name)
	if en, ok := koToEn[name]; ok {
		return en
	}
	return name
}

// NormalizeIngredients 翻譯、去逗號，取前 20 個後去重
func NormalizeIngredients(names []string) []string {
	out := make([]string, 0, min(len(names), MaxQueryIngredients))
	seen := make(map[string]struct{}, len(names))
	taken := 0
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if taken == MaxQueryIngredients {
			break
		}
		taken++

		term := strings.TrimSpace(strings.ReplaceAll(Translate(name), ",", ""))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out
}
