package recommend

import "strings"

const (
	itemSeparator      = ", "
	attributeSeparator = ": "
)

// ParseStats 食材清單解析統計
type ParseStats struct {
	Items   int // 切分出的項目數
	Dropped int // 格式不符而捨棄的項目數
}

// ParsedIngredients 解析後的食材清單
type ParsedIngredients struct {
	Values map[string]string
	// Names 依第一次出現的順序；重複名稱以後者的屬性為準，但保留原位置
	Names []string
	Stats ParseStats
}

// NormalizeToken 轉小寫、去除前後空白，並將連續空白改為單一底線
func NormalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// ParseItem 解析單一 "名稱: 屬性" 項目
// 必須剛好切出兩段且名稱非空，否則 ok 為 false
func ParseItem(item string) (name, attribute string, ok bool) {
	parts := strings.Split(item, attributeSeparator)
	if len(parts) != 2 {
		return "", "", false
	}
	name = NormalizeToken(parts[0])
	if name == "" {
		return "", "", false
	}
	return name, NormalizeToken(parts[1]), true
}

// ParseIngredients 解析整段食材描述，並回傳捨棄項目的統計
func ParseIngredients(text string) ParsedIngredients {
	parsed := ParsedIngredients{Values: make(map[string]string)}
	if strings.TrimSpace(text) == "" {
		return parsed
	}

	for _, item := range strings.Split(text, itemSeparator) {
		parsed.Stats.Items++
		name, attribute, ok := ParseItem(item)
		if !ok {
			parsed.Stats.Dropped++
			continue
		}
		if _, exists := parsed.Values[name]; !exists {
			parsed.Names = append(parsed.Names, name)
		}
		parsed.Values[name] = attribute
	}
	return parsed
}

// Normalize 將食材描述轉為 名稱 -> 屬性 的對應表，格式錯誤的項目直接略過
func Normalize(text string) map[string]string {
	return ParseIngredients(text).Values
}
