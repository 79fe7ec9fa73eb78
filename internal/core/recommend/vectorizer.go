package recommend

import (
	"math"
	"strings"
)

// Vectorizer 在建立語料庫時擬合一次的 TF-IDF 向量空間
// 擬合後唯讀，可被多個請求同時使用
type Vectorizer struct {
	terms map[string]int
	idf   []float64
	docs  []sparseVector
}

// QueryVector 投影到已擬合空間的查詢向量（已 L2 正規化）
type QueryVector struct {
	weights map[int]float64
}

type sparseVector struct {
	terms   []int
	weights []float64
}

// Empty 查詢中沒有任何詞出現在詞彙表時為 true
func (q QueryVector) Empty() bool {
	return len(q.weights) == 0
}

// SplitVocabulary 將 ", " 串接的食材名稱字串拆回詞項
func SplitVocabulary(vocabulary string) []string {
	if vocabulary == "" {
		return nil
	}
	parts := strings.Split(vocabulary, itemSeparator)
	terms := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

// Fit 以所有文件擬合詞彙表與 IDF
// idf(t) = ln((1+N)/(1+df(t))) + 1
func Fit(vocabularies []string) *Vectorizer {
	v := &Vectorizer{terms: make(map[string]int)}

	tokenized := make([][]string, len(vocabularies))
	var df []int
	for i, vocab := range vocabularies {
		tokens := SplitVocabulary(vocab)
		tokenized[i] = tokens

		seen := make(map[int]bool, len(tokens))
		for _, tok := range tokens {
			id, ok := v.terms[tok]
			if !ok {
				id = len(v.terms)
				v.terms[tok] = id
				df = append(df, 0)
			}
			if !seen[id] {
				seen[id] = true
				df[id]++
			}
		}
	}

	n := float64(len(vocabularies))
	v.idf = make([]float64, len(df))
	for id, count := range df {
		v.idf[id] = math.Log((1+n)/(1+float64(count))) + 1
	}

	v.docs = make([]sparseVector, len(tokenized))
	for i, tokens := range tokenized {
		v.docs[i] = v.weigh(tokens, false)
	}
	return v
}

// VocabularySize 詞彙表大小
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Documents 擬合時的文件數
func (v *Vectorizer) Documents() int {
	return len(v.docs)
}

// Project 將查詢詞投影到已擬合的空間，不在詞彙表中的詞忽略
// 查詢視為集合，重複的詞只計一次
func (v *Vectorizer) Project(terms []string) QueryVector {
	sv := v.weigh(terms, true)
	q := QueryVector{weights: make(map[int]float64, len(sv.terms))}
	for i, id := range sv.terms {
		q.weights[id] = sv.weights[i]
	}
	return q
}

// Similarity 查詢向量與第 doc 份文件的餘弦相似度，範圍 [0, 1]
func (v *Vectorizer) Similarity(q QueryVector, doc int) float64 {
	if q.Empty() || doc < 0 || doc >= len(v.docs) {
		return 0
	}
	d := v.docs[doc]
	var dot float64
	for i, id := range d.terms {
		if w, ok := q.weights[id]; ok {
			dot += w * d.weights[i]
		}
	}
	// 浮點誤差
	if dot > 1 {
		return 1
	}
	if dot < 0 {
		return 0
	}
	return dot
}

// weigh 計算 tf*idf 並做 L2 正規化
func (v *Vectorizer) weigh(tokens []string, set bool) sparseVector {
	counts := make(map[int]int, len(tokens))
	var order []int
	for _, tok := range tokens {
		id, ok := v.terms[tok]
		if !ok {
			continue
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		} else if set {
			continue
		}
		counts[id]++
	}

	sv := sparseVector{
		terms:   order,
		weights: make([]float64, len(order)),
	}
	var norm float64
	for i, id := range order {
		w := float64(counts[id]) * v.idf[id]
		sv.weights[i] = w
		norm += w * w
	}
	if norm == 0 {
		return sv
	}
	norm = math.Sqrt(norm)
	for i := range sv.weights {
		sv.weights[i] /= norm
	}
	return sv
}

// Score 對一組文件擬合後計算查詢的相似度，結果與 vocabularies 依索引對齊
func Score(queryTerms []string, vocabularies []string) []float64 {
	v := Fit(vocabularies)
	q := v.Project(normalizeTerms(queryTerms))
	scores := make([]float64, len(vocabularies))
	for i := range vocabularies {
		scores[i] = v.Similarity(q, i)
	}
	return scores
}

// normalizeTerms 依食材名稱規則正規化查詢詞，並去除空字串
func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := NormalizeToken(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}
