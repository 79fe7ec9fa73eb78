package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/queue"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/recommend"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App:    config.AppConfig{Debug: true, Version: "test"},
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Recommend: config.RecommendConfig{
			DefaultMaxCalories: 500,
			DefaultLimit:       5,
			MaxLimit:           10,
		},
		Image: config.ImageConfig{MaxSizeBytes: 1 << 20},
	}
}

func testRows() []recommend.RawRecipeRow {
	return []recommend.RawRecipeRow{
		{Name: "Pancakes", Ingredient: "eggs: 2, milk: 1 cup, flour: 200 g", Energy: "200 kcal", TimeCook: "20 min"},
		{Name: "Meringue", Ingredient: "eggs: 3, sugar: 100 g", Energy: "600 kcal"},
		{Name: "Sweet Milk", Ingredient: "milk: 1 l, sugar: 50 g", Energy: "300 kcal"},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, rows []recommend.RawRecipeRow) *gin.Engine {
	t.Helper()

	store := cache.NewManager(config.CacheConfig{MaxSize: 100, TTL: time.Hour})
	q := queue.NewManager(config.QueueConfig{Workers: 2, MaxSize: 16})
	t.Cleanup(func() {
		q.Close()
		_ = store.Close()
	})

	svc := recipe.NewRecommendService(recommend.Build(rows), store, q, nil, recipe.Options{
		DefaultMaxCalories: cfg.Recommend.DefaultMaxCalories,
		DefaultLimit:       cfg.Recommend.DefaultLimit,
		ImageMaxSizeBytes:  cfg.Image.MaxSizeBytes,
		Recommend:          recommend.Options{MaxLimit: cfg.Recommend.MaxLimit},
	})
	return SetupRouter(cfg, svc, q, store)
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) common.RecommendationResult {
	t.Helper()
	var result common.RecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestRecommendEndpoint(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	w := postJSON(r, "/api/v1/recommend", `{"ingredients":["eggs","milk"],"max_calories":1000,"limit":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	result := decodeResult(t, w)
	assert.Equal(t, 2, result.Count)
	assert.False(t, result.CacheHit)
	assert.Equal(t, "Pancakes", result.Recommendations[0].Name)
	assert.Equal(t, "1_cup", result.Recommendations[0].Ingredients["milk"])

	w = postJSON(r, "/api/v1/recommend", `{"ingredients":["milk","EGGS"],"max_calories":1000,"limit":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResult(t, w).CacheHit)
}

func TestRecommendEndpointAcceptsClassifierObjects(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	body := `{
		"ingredients": [{"classificacao": "sugar"}, {"name": "eggs"}, {"confidence": 0.4}],
		"max_kcals": 1000,
		"num_recommendations": 1
	}`
	w := postJSON(r, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decodeResult(t, w)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Meringue", result.Recommendations[0].Name)
	assert.InDelta(t, 1.0, result.Recommendations[0].Score, 1e-9)
}

func TestRecommendEndpointDefaults(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	w := postJSON(r, "/api/v1/recommend", `{"ingredients":["eggs"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	result := decodeResult(t, w)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "Pancakes", result.Recommendations[0].Name)
}

func TestRecommendEndpointErrors(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty ingredients", `{"ingredients":[]}`, http.StatusBadRequest, "INVALID_QUERY"},
		{"only unnamed objects", `{"ingredients":[{"amount":1}]}`, http.StatusBadRequest, "INVALID_QUERY"},
		{"limit above max", `{"ingredients":["eggs"],"limit":50}`, http.StatusBadRequest, "INVALID_QUERY"},
		{"negative calories", `{"ingredients":["eggs"],"max_calories":-1}`, http.StatusBadRequest, "INVALID_QUERY"},
		{"numeric ingredient", `{"ingredients":[42]}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"malformed json", `{"ingredients":`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/v1/recommend", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp common.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestRecommendEndpointRequiresJSON(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader("ingredients=eggs"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeUnsupportedMediaType)
}

func TestRecommendImageWithoutClassifier(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	w := postJSON(r, "/api/v1/recommend/image", `{"image":"data:image/png;base64,AAAA"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CLASSIFIER_DISABLED")

	w = postJSON(r, "/api/v1/recommend/image", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t, testConfig(), testRows())

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var health struct {
		Status string               `json:"status"`
		Corpus recommend.BuildStats `json:"corpus"`
		Queue  *queue.Status        `json:"queue"`
		Cache  map[string]any       `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Corpus.Kept)
	require.NotNil(t, health.Queue)
	assert.Equal(t, 2, health.Queue.Workers)
	assert.Equal(t, "memory", health.Cache["backend"])

	assert.Equal(t, http.StatusOK, get(r, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(r, "/live").Code)
}

func TestReadyWithEmptyCorpus(t *testing.T) {
	r := newTestRouter(t, testConfig(), nil)

	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(r, "/live").Code)

	w := postJSON(r, "/api/v1/recommend", `{"ingredients":["eggs"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeResult(t, w).Count)
}

func TestDuplicateRequestsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	r := newTestRouter(t, cfg, testRows())

	body := `{"ingredients":["eggs"]}`
	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/recommend", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/v1/recommend", body).Code)
}

func TestRateLimitApplied(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}
	r := newTestRouter(t, cfg, testRows())

	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/recommend", `{"ingredients":["eggs"]}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/v1/recommend", `{"ingredients":["milk"]}`).Code)
	assert.Equal(t, http.StatusOK, get(r, "/health").Code)
}

func TestOversizedChunkedBodyRejected(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	r := newTestRouter(t, cfg, testRows())

	body := `{"ingredients":["` + strings.Repeat("a", 3<<20) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", io.NopCloser(strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, common.ErrCodeRequestTooLarge, resp.Code)
}
