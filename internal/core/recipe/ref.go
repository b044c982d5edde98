package recipe

import "strconv"

// RefKind 食譜來源
type RefKind int

const (
	// RefLocal 本地目錄
	RefLocal RefKind = iota
	// RefExternal Spoonacular
	RefExternal
)

// RecipeRef 指向本地或外部食譜；ID 一律為正數（外部 ID 已去掉負號）
type RecipeRef struct {
	Kind RefKind
	ID   int64
}

// Local 本地食譜
func Local(id int64) RecipeRef { return RecipeRef{Kind: RefLocal, ID: id} }

// External 外部食譜
func External(id int64) RecipeRef { return RecipeRef{Kind: RefExternal, ID: id} }

// ParseRecipeRef 負數 ID 視為外部食譜，其絕對值為外部 ID
func ParseRecipeRef(id int64) RecipeRef {
	if id < 0 {
		return External(-id)
	}
	return Local(id)
}

// IsExternal 是否為外部食譜
func (r RecipeRef) IsExternal() bool { return r.Kind == RefExternal }

// PublicID 對外使用的單一整數 ID
func (r RecipeRef) PublicID() int64 {
	if r.IsExternal() {
		return -r.ID
	}
	return r.ID
}

func (r RecipeRef) String() string {
	if r.IsExternal() {
		return "external:" + strconv.FormatInt(r.ID, 10)
	}
	return "local:" + strconv.FormatInt(r.ID, 10)
}
