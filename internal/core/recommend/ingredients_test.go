package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_WellFormed(t *testing.T) {
	got := Normalize("Eggs: 2 pieces, Whole  Milk: 200 ml")
	assert.Equal(t, map[string]string{
		"eggs":       "2_pieces",
		"whole_milk": "200_ml",
	}, got)
}

func TestNormalize_DropsMalformedItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{"missing separator", "eggs, milk: 1 cup", map[string]string{"milk": "1_cup"}},
		{"two separators", "salt: a: pinch, flour: 100 g", map[string]string{"flour": "100_g"}},
		{"empty name", " : 1, sugar: 2 tbsp", map[string]string{"sugar": "2_tbsp"}},
		{"nothing usable", "just some text", map[string]string{}},
		{"empty text", "", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, Normalize(tt.text))
			})
		})
	}
}

func TestParseIngredients_LastWriteWins(t *testing.T) {
	parsed := ParseIngredients("Butter: 10 g, flour: 1 cup, BUTTER: 20 g")

	assert.Equal(t, "20_g", parsed.Values["butter"])
	assert.Equal(t, []string{"butter", "flour"}, parsed.Names)
	assert.Equal(t, ParseStats{Items: 3, Dropped: 0}, parsed.Stats)
}

func TestParseIngredients_CountsDropped(t *testing.T) {
	parsed := ParseIngredients("eggs, milk: 1 cup, a: b: c")

	assert.Equal(t, ParseStats{Items: 3, Dropped: 2}, parsed.Stats)
	assert.Equal(t, []string{"milk"}, parsed.Names)
}

func TestParseItem(t *testing.T) {
	name, attr, ok := ParseItem("  Olive\tOil :  2 Tbsp ")
	assert.True(t, ok)
	assert.Equal(t, "olive_oil", name)
	assert.Equal(t, "2_tbsp", attr)

	_, _, ok = ParseItem("olive oil")
	assert.False(t, ok)
}

func TestNormalizeToken(t *testing.T) {
	assert.Equal(t, "brown_sugar", NormalizeToken("  Brown \t Sugar "))
	assert.Equal(t, "", NormalizeToken("   "))
}
