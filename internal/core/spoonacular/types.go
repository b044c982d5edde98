package spoonacular

// findByIngredients 回應中的一筆
type foundRecipe struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Image             string            `json:"image"`
	UsedIngredients   []namedIngredient `json:"usedIngredients"`
	MissedIngredients []namedIngredient `json:"missedIngredients"`
}

type namedIngredient struct {
	Name string `json:"name"`
}

// recipeInformation /recipes/{id}/information；欄位都可能缺少
type recipeInformation struct {
	ID                   int64                `json:"id"`
	Title                string               `json:"title"`
	Image                string               `json:"image"`
	Summary              string               `json:"summary"`
	Instructions         string               `json:"instructions"`
	ExtendedIngredients  []extendedIngredient `json:"extendedIngredients"`
	AnalyzedInstructions []instructionBlock   `json:"analyzedInstructions"`
}

type extendedIngredient struct {
	Original string `json:"original"`
}

type instructionBlock struct {
	Name  string `json:"name"`
	Steps []struct {
		Number int    `json:"number"`
		Step   string `json:"step"`
	} `json:"steps"`
}
