package recommend

import (
	"fmt"
	"sort"
	"sync"
)

const defaultMinShardSize = 512

// Options 推薦計算參數
type Options struct {
	// Workers 計分時的分片數，<= 1 時依序計算
	Workers int
	// MinShardSize 每個分片最少的候選數，0 使用預設值
	MinShardSize int
	// MaxLimit 可接受的最大 Limit，0 表示不限制
	MaxLimit int
	// IncludeUnmatched 保留分數為 0（沒有任何共同食材）的食譜
	IncludeUnmatched bool
}

// Recommender 對固定語料庫進行推薦，本身無狀態，可同時被多個請求使用
type Recommender struct {
	corpus *Corpus
	opts   Options
}

// NewRecommender 建立推薦器
func NewRecommender(corpus *Corpus, opts Options) *Recommender {
	if opts.MinShardSize <= 0 {
		opts.MinShardSize = defaultMinShardSize
	}
	return &Recommender{corpus: corpus, opts: opts}
}

// Recommend 以預設參數推薦
func Recommend(q Query, corpus *Corpus) ([]ScoredMatch, error) {
	return NewRecommender(corpus, Options{}).Recommend(q)
}

// Validate 檢查呼叫端是否遵守查詢約定
func (r *Recommender) Validate(q Query) error {
	if len(normalizeTerms(q.Ingredients)) == 0 {
		return fmt.Errorf("%w: ingredients must not be empty", ErrInvalidQuery)
	}
	if q.Limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidQuery, q.Limit)
	}
	if r.opts.MaxLimit > 0 && q.Limit > r.opts.MaxLimit {
		return fmt.Errorf("%w: limit must not exceed %d, got %d", ErrInvalidQuery, r.opts.MaxLimit, q.Limit)
	}
	if q.MaxCalories < 0 {
		return fmt.Errorf("%w: max calories must not be negative, got %d", ErrInvalidQuery, q.MaxCalories)
	}
	return nil
}

// Recommend 依熱量過濾後計算相似度，分數由高到低排序，同分保留語料庫原順序
func (r *Recommender) Recommend(q Query) ([]ScoredMatch, error) {
	if err := r.Validate(q); err != nil {
		return nil, err
	}
	if r.corpus == nil {
		return []ScoredMatch{}, nil
	}

	candidates := make([]int, 0, r.corpus.Len())
	for i := range r.corpus.recipes {
		if r.corpus.recipes[i].Calories <= q.MaxCalories {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return []ScoredMatch{}, nil
	}

	qv := r.corpus.vectorizer.Project(normalizeTerms(q.Ingredients))
	scores := make([]float64, len(candidates))
	r.scoreAll(qv, candidates, scores)

	type ranked struct {
		index int
		score float64
	}
	results := make([]ranked, 0, len(candidates))
	for i, idx := range candidates {
		if scores[i] == 0 && !r.opts.IncludeUnmatched {
			continue
		}
		results = append(results, ranked{index: idx, score: scores[i]})
	}

	// 分數遞減，同分依原順序遞增
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].index < results[j].index
	})

	if len(results) > q.Limit {
		results = results[:q.Limit]
	}

	matches := make([]ScoredMatch, len(results))
	for i, res := range results {
		matches[i] = ScoredMatch{
			Recipe: r.corpus.Recipe(res.index),
			Score:  res.score,
		}
	}
	return matches, nil
}

// scoreAll 將候選分片後平行計分，各分片寫入 scores 中互不重疊的區段
func (r *Recommender) scoreAll(qv QueryVector, candidates []int, scores []float64) {
	v := r.corpus.vectorizer
	if r.opts.Workers <= 1 || len(candidates) < 2*r.opts.MinShardSize {
		for i, idx := range candidates {
			scores[i] = v.Similarity(qv, idx)
		}
		return
	}

	shard := (len(candidates) + r.opts.Workers - 1) / r.opts.Workers
	shard = max(shard, r.opts.MinShardSize)

	var wg sync.WaitGroup
	for start := 0; start < len(candidates); start += shard {
		end := min(start+shard, len(candidates))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				scores[i] = v.Similarity(qv, candidates[i])
			}
		}(start, end)
	}
	wg.Wait()
}
