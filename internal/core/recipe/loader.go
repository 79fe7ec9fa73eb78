package recipe

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/core/dataset"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/pkg/common"
)

// LoadCorpus 從資料來源讀取並建立語料庫，記錄載入與正規化統計
func LoadCorpus(ctx context.Context, src dataset.Source) (*recommend.Corpus, error) {
	start := time.Now()

	rows, loadStats, err := src.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	corpus := recommend.Build(rows)
	stats := corpus.Stats()

	common.LogInfo("食譜語料庫已建立",
		zap.Int("read", loadStats.Read),
		zap.Int("skipped_lines", loadStats.Skipped),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped_rows", stats.DroppedRows),
		zap.Int("dropped_items", stats.DroppedItems),
		zap.Int("missing_calories", stats.MissingCalories),
		zap.Int("vocabulary", stats.Vocabulary),
		zap.Duration("耗時", time.Since(start)),
	)
	if stats.Kept == 0 {
		common.LogWarn("語料庫沒有任何可用的食譜")
	}

	return corpus, nil
}
