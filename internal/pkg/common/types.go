package common

// Recommendation 推薦結果
type Recommendation struct {
	Name        string            `json:"name"`
	Calories    int               `json:"calories"`
	Ingredients map[string]string `json:"ingredients"`
	Score       float64           `json:"score"`
	CookTime    string            `json:"time_cook,omitempty"`
}

// RecommendationResult 一次推薦的完整結果
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Count           int              `json:"count"`
	CacheHit        bool             `json:"cache_hit"`
	// Detected 由圖片辨識出的食材（僅圖片推薦時）
	Detected []DetectedIngredient `json:"detected,omitempty"`
}

// DetectedIngredient 影像分類服務辨識出的食材
// classificacao 為分類服務回傳的欄位名稱
type DetectedIngredient struct {
	Label      string  `json:"classificacao"`
	Confidence float64 `json:"confidence,omitempty"`
}
