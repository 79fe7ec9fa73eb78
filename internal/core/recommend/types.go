package recommend

import "errors"

// ErrInvalidQuery 呼叫端違反查詢約定（與「沒有結果」區分）
var ErrInvalidQuery = errors.New("invalid query")

// RawRecipeRow 資料集中的一列原始資料，欄位可能格式錯誤
type RawRecipeRow struct {
	Name       string `json:"name"`
	Text       string `json:"text"`
	Ingredient string `json:"ingredient"`
	Energy     string `json:"energy"`
	TimeCook   string `json:"time_cook"`
}

// Recipe 正規化後的食譜，建立後不可再修改
type Recipe struct {
	Name        string
	Description string
	// Ingredients 食材名稱 -> 屬性，鍵皆已轉小寫並以底線取代空白
	Ingredients map[string]string
	// IngredientNames 食材名稱，依第一次出現的順序
	IngredientNames []string
	Calories        int
	CookTime        string
	// Vocabulary 以 ", " 串接的食材名稱，供相似度計算使用
	Vocabulary string
}

// Query 單次推薦查詢
type Query struct {
	Ingredients []string
	MaxCalories int
	Limit       int
}

// ScoredMatch 推薦結果，Recipe 指向 Corpus 內部資料，不可修改
type ScoredMatch struct {
	Recipe *Recipe
	Score  float64
}
