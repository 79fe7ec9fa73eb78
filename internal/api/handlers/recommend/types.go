package recommend

import (
	"bytes"
	"encoding/json"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// IngredientInput 單一食材，可以是字串或帶有 classificacao / name 的物件
type IngredientInput struct {
	Name string
}

// UnmarshalJSON 接受字串或物件，物件兩個欄位都沒有時視為空白
func (i *IngredientInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return common.NewValidationError("ingredient is empty")
	}

	switch data[0] {
	case '"':
		return json.Unmarshal(data, &i.Name)
	case '{':
		var obj struct {
			Label *string `json:"classificacao"`
			Name  *string `json:"name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.Label != nil:
			i.Name = *obj.Label
		case obj.Name != nil:
			i.Name = *obj.Name
		}
		return nil
	default:
		return common.NewValidationError("ingredient must be a string or an object")
	}
}

// RecommendRequest 推薦請求
// max_kcals 與 num_recommendations 為舊版欄位名稱
type RecommendRequest struct {
	Ingredients        []IngredientInput `json:"ingredients"`
	MaxCalories        *int              `json:"max_calories"`
	MaxKcals           *int              `json:"max_kcals"`
	Limit              *int              `json:"limit"`
	NumRecommendations *int              `json:"num_recommendations"`
}

// ImageRecommendRequest 圖片推薦請求
type ImageRecommendRequest struct {
	RecommendRequest
	Image string `json:"image"`
}

// toServiceRequest 轉為服務層請求，新欄位優先於舊欄位
func (r RecommendRequest) toServiceRequest() recipe.Request {
	req := recipe.Request{
		Ingredients: make([]string, 0, len(r.Ingredients)),
		MaxCalories: r.MaxCalories,
		Limit:       r.Limit,
	}
	if req.MaxCalories == nil {
		req.MaxCalories = r.MaxKcals
	}
	if req.Limit == nil {
		req.Limit = r.NumRecommendations
	}
	for _, ing := range r.Ingredients {
		if ing.Name != "" {
			req.Ingredients = append(req.Ingredients, ing.Name)
		}
	}
	return req
}
