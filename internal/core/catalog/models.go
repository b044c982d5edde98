package catalog

// Ingredient 食材，名稱唯一（查詢時不分大小寫）
type Ingredient struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"size:100;not null;uniqueIndex"`
	Category string `gorm:"size:50"`
}

// Recipe 本地目錄中的食譜
type Recipe struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:200;not null;index"`
	Description  string `gorm:"size:2000"`
	ImageURL     string `gorm:"size:500"`
	MainCategory string `gorm:"size:50"`
	SubCategory  string `gorm:"size:50"`

	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE"`
	Steps       []RecipeStep       `gorm:"constraint:OnDelete:CASCADE"`
}

// RecipeIngredient 食譜與食材的關聯，Amount 可為空
type RecipeIngredient struct {
	ID           int64      `gorm:"primaryKey"`
	RecipeID     int64      `gorm:"not null;index"`
	IngredientID int64      `gorm:"not null;index"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:RESTRICT"`
	Amount       string     `gorm:"size:100"`
}

// DisplayName 回傳 "名稱" 或 "名稱 份量"
func (ri RecipeIngredient) DisplayName() string {
	if ri.Amount == "" {
		return ri.Ingredient.Name
	}
	return ri.Ingredient.Name + " " + ri.Amount
}

// RecipeStep 食譜步驟，StepOrder 從 1 開始
type RecipeStep struct {
	ID        int64  `gorm:"primaryKey"`
	RecipeID  int64  `gorm:"not null;index"`
	StepOrder int    `gorm:"not null"`
	StepText  string `gorm:"size:500;not null"`
}

// IngredientLink 食譜名稱與其一個食材，供比對索引載入
type IngredientLink struct {
	RecipeID     int64
	RecipeName   string
	IngredientID int64
}
