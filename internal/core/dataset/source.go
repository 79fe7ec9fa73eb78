// Package dataset 載入食譜原始資料，支援 CSV 檔與 SQL 資料表兩種來源
package dataset

import (
	"context"
	"fmt"
	"io"

	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
)

// LoadStats 載入統計
type LoadStats struct {
	Read    int `json:"read"`
	Skipped int `json:"skipped"`
}

// Source 原始食譜資料來源
type Source interface {
	Rows(ctx context.Context) ([]recommend.RawRecipeRow, LoadStats, error)
}

// Close 釋放來源持有的連線，沒有連線的來源直接回傳 nil
func Close(src Source) error {
	if closer, ok := src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Open 依設定建立資料來源
func Open(cfg config.DatasetConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV, "":
		return &CSVSource{Path: cfg.Path, MaxRows: cfg.MaxRows, SkipRows: cfg.SkipRows}, nil
	case config.SourceSQL:
		db, err := OpenDB(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &SQLSource{DB: db, MaxRows: cfg.MaxRows}, nil
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}
