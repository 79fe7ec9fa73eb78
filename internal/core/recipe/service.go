// Package recipe 推薦服務：套用預設值、快取與隊列，並串接圖片辨識
package recipe

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/image"
	"recipe-recommender/internal/core/queue"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/pkg/common"
)

// Classifier 影像分類服務
type Classifier interface {
	Classify(ctx context.Context, dataURI string) ([]common.DetectedIngredient, error)
}

// Request 推薦請求，nil 欄位使用預設值
type Request struct {
	Ingredients []string
	MaxCalories *int
	Limit       *int
}

// Options 服務參數
type Options struct {
	DefaultMaxCalories int
	DefaultLimit       int
	ImageMaxSizeBytes  int64
	ImageMaxPixels     int64
	Recommend          recommend.Options
}

// RecommendService 推薦服務
type RecommendService struct {
	corpus      *recommend.Corpus
	recommender *recommend.Recommender
	cache       cache.Store
	queue       *queue.Manager
	classifier  Classifier
	images      *image.Service
	opts        Options
}

// NewRecommendService 創建推薦服務，cache、queue、classifier 皆可為 nil
func NewRecommendService(corpus *recommend.Corpus, store cache.Store, q *queue.Manager, classifier Classifier, opts Options) *RecommendService {
	return &RecommendService{
		corpus:      corpus,
		recommender: recommend.NewRecommender(corpus, opts.Recommend),
		cache:       store,
		queue:       q,
		classifier:  classifier,
		images:      image.NewService(opts.ImageMaxSizeBytes, opts.ImageMaxPixels),
		opts:        opts,
	}
}

// Recommend 依食材推薦食譜
func (s *RecommendService) Recommend(ctx context.Context, req Request) (*common.RecommendationResult, error) {
	query := s.buildQuery(req)
	if err := s.recommender.Validate(query); err != nil {
		return nil, common.ErrInvalidQuery.Wrap(err)
	}

	key := cache.Key(canonicalKey(query))
	if recs, ok := s.fromCache(ctx, key); ok {
		return &common.RecommendationResult{Recommendations: recs, Count: len(recs), CacheHit: true}, nil
	}

	start := time.Now()
	recs, err := s.compute(ctx, query)
	if err != nil {
		return nil, err
	}

	common.LogDebug("推薦計算完成",
		zap.Int("ingredients", len(query.Ingredients)),
		zap.Int("max_calories", query.MaxCalories),
		zap.Int("limit", query.Limit),
		zap.Int("results", len(recs)),
		zap.Duration("耗時", time.Since(start)),
		zap.String("request_id", common.RequestIDFromContext(ctx)),
	)

	s.toCache(ctx, key, recs)
	return &common.RecommendationResult{Recommendations: recs, Count: len(recs)}, nil
}

// RecommendFromImage 辨識圖片中的食材後推薦，req.Ingredients 會與辨識結果合併
func (s *RecommendService) RecommendFromImage(ctx context.Context, imageData string, req Request) (*common.RecommendationResult, error) {
	if s.classifier == nil {
		return nil, common.ErrClassifierDisabled
	}

	img, err := s.images.Process(ctx, imageData)
	if err != nil {
		return nil, err
	}

	detected, err := s.classifier.Classify(ctx, img.DataURI())
	if err != nil {
		return nil, err
	}
	if len(detected) == 0 {
		return nil, common.ErrNoIngredientsDetected
	}

	ingredients := make([]string, 0, len(req.Ingredients)+len(detected))
	ingredients = append(ingredients, req.Ingredients...)
	for _, d := range detected {
		ingredients = append(ingredients, d.Label)
	}
	req.Ingredients = ingredients

	result, err := s.Recommend(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Detected = detected
	return result, nil
}

// CorpusStats 語料庫統計
func (s *RecommendService) CorpusStats() recommend.BuildStats {
	return s.corpus.Stats()
}

// Ready 語料庫中至少有一份食譜
func (s *RecommendService) Ready() bool {
	return s.corpus.Len() > 0
}

// ClassifierEnabled 是否已設定影像分類服務
func (s *RecommendService) ClassifierEnabled() bool {
	return s.classifier != nil
}

// buildQuery 套用預設值
func (s *RecommendService) buildQuery(req Request) recommend.Query {
	query := recommend.Query{
		Ingredients: req.Ingredients,
		MaxCalories: s.opts.DefaultMaxCalories,
		Limit:       s.opts.DefaultLimit,
	}
	if req.MaxCalories != nil {
		query.MaxCalories = *req.MaxCalories
	}
	if req.Limit != nil {
		query.Limit = *req.Limit
	}
	return query
}

// compute 在隊列中執行推薦，沒有隊列時直接計算
func (s *RecommendService) compute(ctx context.Context, query recommend.Query) ([]common.Recommendation, error) {
	run := func(context.Context) (interface{}, error) {
		matches, err := s.recommender.Recommend(query)
		if err != nil {
			return nil, err
		}
		return toRecommendations(matches), nil
	}

	var (
		value interface{}
		err   error
	)
	if s.queue != nil {
		value, err = s.queue.Submit(ctx, run)
	} else {
		value, err = run(ctx)
	}
	if err != nil {
		if errors.Is(err, recommend.ErrInvalidQuery) {
			return nil, common.ErrInvalidQuery.Wrap(err)
		}
		return nil, err
	}
	return value.([]common.Recommendation), nil
}

func (s *RecommendService) fromCache(ctx context.Context, key string) ([]common.Recommendation, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
		return nil, false
	}

	var recs []common.Recommendation
	if err := common.ParseJSON(value, &recs); err != nil {
		common.LogWarn("快取內容無法解析", zap.String("鍵", key), zap.Error(err))
		return nil, false
	}
	return recs, true
}

func (s *RecommendService) toCache(ctx context.Context, key string, recs []common.Recommendation) {
	if s.cache == nil {
		return
	}

	data, err := common.ToJSON(recs)
	if err != nil {
		common.LogWarn("快取序列化失敗", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("寫入快取失敗", zap.String("鍵", key), zap.Error(err))
	}
}

// canonicalKey 與食材順序、大小寫及重複無關的查詢表示
func canonicalKey(q recommend.Query) string {
	seen := make(map[string]struct{}, len(q.Ingredients))
	terms := make([]string, 0, len(q.Ingredients))
	for _, ing := range q.Ingredients {
		t := recommend.NormalizeToken(ing)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return fmt.Sprintf("%s|kcal=%d|limit=%d", strings.Join(terms, ","), q.MaxCalories, q.Limit)
}

func toRecommendations(matches []recommend.ScoredMatch) []common.Recommendation {
	recs := make([]common.Recommendation, len(matches))
	for i, m := range matches {
		recs[i] = common.Recommendation{
			Name:        m.Recipe.Name,
			Calories:    m.Recipe.Calories,
			Ingredients: maps.Clone(m.Recipe.Ingredients),
			Score:       m.Score,
			CookTime:    m.Recipe.CookTime,
		}
	}
	return recs
}
