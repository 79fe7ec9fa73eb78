package recommend

import (
	"regexp"
	"strconv"
)

// 第一個緊接 kcal 的數字，允許小數（只取整數部分）
var kcalPattern = regexp.MustCompile(`(?i)(\d+)(?:\.\d+)?\s*kcal`)

// ExtractCalories 從能量描述中取出大卡數，找不到時回傳 0
func ExtractCalories(text string) int {
	n, _ := parseCalories(text)
	return n
}

// parseCalories found 為 false 表示描述中沒有可用的熱量
func parseCalories(text string) (int, bool) {
	m := kcalPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// 超出 int 範圍
		return 0, false
	}
	return n, true
}
