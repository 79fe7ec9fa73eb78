package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"recipe-recommender/internal/core/recommend"
)

// 必要欄位
var requiredColumns = []string{"name", "text", "ingredient", "energy", "time_cook"}

// CSVSource 從 CSV 檔讀取食譜
//
// SkipRows 以資料列序號表示（標題列為 0，第一筆資料為 1）。
// MaxRows 為 0 時不限制筆數。
type CSVSource struct {
	Path     string
	MaxRows  int
	SkipRows []int
}

// Rows 讀取檔案
func (s *CSVSource) Rows(ctx context.Context) ([]recommend.RawRecipeRow, LoadStats, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return s.read(ctx, f)
}

// Read 從任意 reader 讀取，格式與 Rows 相同
func (s *CSVSource) Read(ctx context.Context, r io.Reader) ([]recommend.RawRecipeRow, LoadStats, error) {
	return s.read(ctx, r)
}

func (s *CSVSource) read(ctx context.Context, r io.Reader) ([]recommend.RawRecipeRow, LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read dataset header: %w", err)
	}
	// 標題列決定欄位數，欄位數不符的資料列會被略過
	reader.FieldsPerRecord = len(header)

	index, err := columnIndex(header)
	if err != nil {
		return nil, stats, err
	}

	skip := make(map[int]struct{}, len(s.SkipRows))
	for _, n := range s.SkipRows {
		skip[n] = struct{}{}
	}

	rows := make([]recommend.RawRecipeRow, 0)
	for line := 1; s.MaxRows <= 0 || len(rows) < s.MaxRows; line++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if _, ok := skip[line]; ok {
			continue
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("failed to read dataset: %w", err)
		}

		stats.Read++
		rows = append(rows, recommend.RawRecipeRow{
			Name:       record[index["name"]],
			Text:       record[index["text"]],
			Ingredient: record[index["ingredient"]],
			Energy:     record[index["energy"]],
			TimeCook:   record[index["time_cook"]],
		})
	}

	return rows, stats, nil
}

// columnIndex 對應欄位名稱到索引
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
