package recommend

import "strings"

// BuildStats 語料庫建立時的資料品質統計
type BuildStats struct {
	Rows            int `json:"rows"`
	Kept            int `json:"kept"`
	DroppedRows     int `json:"dropped_rows"`
	DroppedItems    int `json:"dropped_items"`
	MissingCalories int `json:"missing_calories"`
	Vocabulary      int `json:"vocabulary"`
}

// Corpus 不可變的食譜語料庫，建立後只讀，可安全地在多個 goroutine 間共用
type Corpus struct {
	recipes    []Recipe
	vectorizer *Vectorizer
	stats      BuildStats
}

// Build 正規化所有原始資料列並擬合向量空間
// 沒有任何可用食材的資料列會被排除，其餘保持原順序
func Build(rows []RawRecipeRow) *Corpus {
	c := &Corpus{
		recipes: make([]Recipe, 0, len(rows)),
		stats:   BuildStats{Rows: len(rows)},
	}

	for _, row := range rows {
		recipe, stats, ok := buildRecipe(row)
		c.stats.DroppedItems += stats.Dropped
		if !ok {
			c.stats.DroppedRows++
			continue
		}
		if recipe.Calories == 0 {
			if _, found := parseCalories(row.Energy); !found {
				c.stats.MissingCalories++
			}
		}
		c.recipes = append(c.recipes, recipe)
	}

	vocabularies := make([]string, len(c.recipes))
	for i := range c.recipes {
		vocabularies[i] = c.recipes[i].Vocabulary
	}
	c.vectorizer = Fit(vocabularies)

	c.stats.Kept = len(c.recipes)
	c.stats.Vocabulary = c.vectorizer.VocabularySize()
	return c
}

func buildRecipe(row RawRecipeRow) (Recipe, ParseStats, bool) {
	parsed := ParseIngredients(row.Ingredient)
	if len(parsed.Names) == 0 {
		return Recipe{}, parsed.Stats, false
	}
	return Recipe{
		Name:            row.Name,
		Description:     row.Text,
		Ingredients:     parsed.Values,
		IngredientNames: parsed.Names,
		Calories:        ExtractCalories(row.Energy),
		CookTime:        row.TimeCook,
		Vocabulary:      strings.Join(parsed.Names, itemSeparator),
	}, parsed.Stats, true
}

// Len 語料庫中的食譜數量
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.recipes)
}

// Recipe 取得第 i 份食譜，回傳的指標不可用於修改
func (c *Corpus) Recipe(i int) *Recipe {
	return &c.recipes[i]
}

// Stats 建立時的統計
func (c *Corpus) Stats() BuildStats {
	if c == nil {
		return BuildStats{}
	}
	return c.stats
}

// Vectorizer 以整個語料庫擬合的向量空間
func (c *Corpus) Vectorizer() *Vectorizer {
	return c.vectorizer
}
