package recipe

import (
	"recipe-recommender/internal/core/classifier"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
)

// OptionsFromConfig 由設定組出服務參數
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DefaultMaxCalories: cfg.Recommend.DefaultMaxCalories,
		DefaultLimit:       cfg.Recommend.DefaultLimit,
		ImageMaxSizeBytes:  cfg.Image.MaxSizeBytes,
		ImageMaxPixels:     cfg.Image.MaxPixels,
		Recommend: recommend.Options{
			Workers:          cfg.Recommend.Workers,
			MaxLimit:         cfg.Recommend.MaxLimit,
			IncludeUnmatched: cfg.Recommend.IncludeUnmatched,
		},
	}
}

// NewClassifier 分類服務未啟用時回傳 nil
func NewClassifier(cfg config.ClassifierConfig) Classifier {
	if !cfg.Enabled {
		return nil
	}
	return classifier.NewClient(cfg)
}
