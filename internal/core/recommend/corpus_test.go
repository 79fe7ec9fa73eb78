package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []RawRecipeRow {
	return []RawRecipeRow{
		{Name: "Pancakes", Text: "Fluffy", Ingredient: "Eggs: 2, Milk: 200 ml, Flour: 100 g", Energy: "200 kcal", TimeCook: "20 min"},
		{Name: "Meringue", Text: "Sweet", Ingredient: "Eggs: 3, Sugar: 150 g", Energy: "600 kcal", TimeCook: "1 h"},
	}
}

func TestBuild_NormalizesRows(t *testing.T) {
	corpus := Build(sampleRows())
	require.Equal(t, 2, corpus.Len())

	r := corpus.Recipe(0)
	assert.Equal(t, "Pancakes", r.Name)
	assert.Equal(t, "Fluffy", r.Description)
	assert.Equal(t, 200, r.Calories)
	assert.Equal(t, "20 min", r.CookTime)
	assert.Equal(t, map[string]string{"eggs": "2", "milk": "200_ml", "flour": "100_g"}, r.Ingredients)
	assert.Equal(t, "eggs, milk, flour", r.Vocabulary)
}

func TestBuild_DropsRowsWithoutIngredients(t *testing.T) {
	rows := append(sampleRows(),
		RawRecipeRow{Name: "Broken", Ingredient: "no separators here", Energy: "100 kcal"},
		RawRecipeRow{Name: "Empty", Ingredient: "", Energy: "unknown"},
		RawRecipeRow{Name: "Toast", Ingredient: "Bread: 1 slice", Energy: "n/a"},
	)

	corpus := Build(rows)

	assert.Equal(t, 3, corpus.Len())
	assert.Less(t, corpus.Len(), len(rows))
	for i := 0; i < corpus.Len(); i++ {
		assert.NotEmpty(t, corpus.Recipe(i).Ingredients)
		assert.NotEqual(t, "Broken", corpus.Recipe(i).Name)
	}
	assert.Equal(t, "Toast", corpus.Recipe(2).Name)

	stats := corpus.Stats()
	assert.Equal(t, 5, stats.Rows)
	assert.Equal(t, 3, stats.Kept)
	assert.Equal(t, 2, stats.DroppedRows)
	assert.Equal(t, 1, stats.DroppedItems)
	assert.Equal(t, 1, stats.MissingCalories)
	assert.Equal(t, 5, stats.Vocabulary)
}

func TestBuild_EmptyInput(t *testing.T) {
	corpus := Build(nil)

	assert.Equal(t, 0, corpus.Len())
	assert.Equal(t, 0, corpus.Vectorizer().Documents())
}
