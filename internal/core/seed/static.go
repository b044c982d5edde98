package seed

import "fridge-recipe/internal/core/catalog"

type staticIngredient struct {
	name     string
	category string
}

type staticRecipe struct {
	name        string
	description string
	sub         string
	ingredients [][2]string // 名稱, 份量
	steps       []string
}

// 基本食材清單
var staticIngredients = []staticIngredient{
	{"돼지고기", "육류"}, {"소고기", "육류"}, {"닭고기", "육류"}, {"베이컨", "육류"},
	{"달걀", "달걀·가공"}, {"참치캔", "달걀·가공"}, {"스팸", "달걀·가공"}, {"두부", "달걀·가공"},
	{"양파", "채소"}, {"감자", "채소"}, {"당근", "채소"}, {"대파", "채소"}, {"마늘", "채소"},
	{"깻잎", "채소"}, {"애호박", "채소"}, {"버섯", "채소"}, {"콩나물", "채소"}, {"시금치", "채소"},
	{"김치", "반찬"},
	{"고추장", "양념"}, {"간장", "양념"}, {"고춧가루", "양념"}, {"된장", "양념"}, {"참기름", "양념"},
	{"라면", "곡류·면"}, {"밥", "곡류·면"},
}

// 手寫的基本食譜，合成目錄產生失敗時仍可使用
var staticRecipes = []staticRecipe{
	{
		name: "김치찌개", description: "잘 익은 김치와 돼지고기로 끓인 찌개.", sub: "국물류",
		ingredients: [][2]string{{"김치", "1/4포기"}, {"돼지고기", "150g"}, {"두부", "1/2모"}, {"대파", "1대"}, {"고춧가루", "1큰술"}},
		steps:       []string{"돼지고기와 김치를 냄비에 볶는다.", "물을 붓고 고춧가루를 넣어 끓인다.", "두부와 대파를 넣고 한소끔 더 끓인다."},
	},
	{
		name: "계란볶음밥", description: "달걀과 대파로 만드는 간단한 볶음밥.", sub: "밥류",
		ingredients: [][2]string{{"밥", "1공기"}, {"달걀", "2개"}, {"대파", "1/2대"}, {"간장", "1큰술"}, {"참기름", "1작은술"}},
		steps:       []string{"팬에 대파를 볶아 파기름을 낸다.", "달걀을 스크램블한 뒤 밥을 넣어 볶는다.", "간장으로 간하고 참기름을 두른다."},
	},
	{
		name: "된장찌개", description: "애호박과 두부를 넣은 구수한 된장찌개.", sub: "국물류",
		ingredients: [][2]string{{"된장", "2큰술"}, {"두부", "1/2모"}, {"애호박", "1/3개"}, {"감자", "1개"}, {"양파", "1/2개"}},
		steps:       []string{"물에 된장을 풀어 끓인다.", "감자와 양파를 넣고 익힌다.", "애호박과 두부를 넣고 5분 더 끓인다."},
	},
	{
		name: "제육볶음", description: "고추장 양념으로 볶은 돼지고기.", sub: "반찬",
		ingredients: [][2]string{{"돼지고기", "300g"}, {"양파", "1개"}, {"고추장", "2큰술"}, {"마늘", "3쪽"}, {"대파", "1대"}},
		steps:       []string{"돼지고기를 고추장과 다진 마늘로 재운다.", "팬에 고기를 볶다가 양파를 넣는다.", "대파를 넣고 마무리한다."},
	},
	{
		name: "소고기 불고기", description: "간장 양념에 재운 소고기 불고기.", sub: "반찬",
		ingredients: [][2]string{{"소고기", "300g"}, {"양파", "1/2개"}, {"간장", "3큰술"}, {"마늘", "2쪽"}, {"참기름", "1큰술"}},
		steps:       []string{"소고기를 간장, 마늘, 참기름에 30분 재운다.", "양파와 함께 센 불에 볶는다."},
	},
	{
		name: "참치김치볶음밥", description: "참치캔과 김치로 만드는 볶음밥.", sub: "밥류",
		ingredients: [][2]string{{"밥", "1공기"}, {"참치캔", "1캔"}, {"김치", "1컵"}, {"달걀", "1개"}},
		steps:       []string{"김치를 잘게 썰어 볶는다.", "참치와 밥을 넣고 고루 볶는다.", "달걀 프라이를 올린다."},
	},
	{
		name: "스팸감자조림", description: "스팸과 감자를 간장에 조린 반찬.", sub: "반찬",
		ingredients: [][2]string{{"스팸", "1캔"}, {"감자", "2개"}, {"간장", "2큰술"}, {"양파", "1/2개"}},
		steps:       []string{"스팸과 감자를 깍둑썰기한다.", "간장 양념과 물을 넣고 국물이 졸아들 때까지 조린다."},
	},
	{
		name: "콩나물국", description: "맑고 시원한 콩나물국.", sub: "국물류",
		ingredients: [][2]string{{"콩나물", "200g"}, {"대파", "1/2대"}, {"마늘", "1쪽"}},
		steps:       []string{"물에 콩나물을 넣고 뚜껑을 덮어 끓인다.", "마늘과 대파를 넣고 소금으로 간한다."},
	},
	{
		name: "시금치나물", description: "참기름으로 무친 시금치나물.", sub: "반찬",
		ingredients: [][2]string{{"시금치", "1단"}, {"참기름", "1큰술"}, {"마늘", "1쪽"}, {"간장", "1작은술"}},
		steps:       []string{"시금치를 끓는 물에 30초 데친다.", "물기를 짜고 양념에 무친다."},
	},
	{
		name: "베이컨버섯라면", description: "베이컨과 버섯을 더한 라면.", sub: "면류",
		ingredients: [][2]string{{"라면", "1개"}, {"베이컨", "2줄"}, {"버섯", "한 줌"}, {"대파", "1/3대"}},
		steps:       []string{"베이컨과 버섯을 먼저 볶는다.", "물을 붓고 끓으면 면과 스프를 넣는다.", "대파를 올려 마무리한다."},
	},
}

// StaticIngredients 回傳基本食材（未寫入）
func StaticIngredients() []*catalog.Ingredient {
	out := make([]*catalog.Ingredient, 0, len(staticIngredients))
	for _, s := range staticIngredients {
		out = append(out, &catalog.Ingredient{Name: s.name, Category: s.category})
	}
	return out
}

// StaticRecipes 依名稱→ID 對應建立基本食譜；缺少的食材略過
func StaticRecipes(ids map[string]int64) []*catalog.Recipe {
	out := make([]*catalog.Recipe, 0, len(staticRecipes))
	for _, s := range staticRecipes {
		recipe := &catalog.Recipe{
			Name:         s.name,
			Description:  s.description,
			MainCategory: mainCategory,
			SubCategory:  s.sub,
		}
		for _, pair := range s.ingredients {
			id, ok := ids[pair[0]]
			if !ok {
				continue
			}
			recipe.Ingredients = append(recipe.Ingredients, catalog.RecipeIngredient{IngredientID: id, Amount: pair[1]})
		}
		if len(recipe.Ingredients) == 0 {
			continue
		}
		for i, text := range s.steps {
			recipe.Steps = append(recipe.Steps, catalog.RecipeStep{StepOrder: i + 1, StepText: text})
		}
		out = append(out, recipe)
	}
	return out
}
