package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/queue"
	"recipe-recommender/internal/core/recommend"
)

// CorpusProvider 提供語料庫狀態
type CorpusProvider interface {
	CorpusStats() recommend.BuildStats
	Ready() bool
	ClassifierEnabled() bool
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Corpus     recommend.BuildStats   `json:"corpus"`
	Classifier bool                   `json:"classifier_enabled"`
	Queue      *queue.Status          `json:"queue,omitempty"`
	Cache      map[string]interface{} `json:"cache,omitempty"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	corpus  CorpusProvider
	queue   *queue.Manager
	cache   cache.Store
	version string
	started time.Time
}

// NewHandler 創建健康檢查處理器，queue 與 cache 可為 nil
func NewHandler(corpus CorpusProvider, q *queue.Manager, store cache.Store, version string) *Handler {
	return &Handler{
		corpus:  corpus,
		queue:   q,
		cache:   store,
		version: version,
		started: time.Now(),
	}
}

// Register 註冊路由
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := "ok"
	if !h.corpus.Ready() {
		status = "degraded"
	}

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Version:    h.version,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Corpus:     h.corpus.CorpusStats(),
		Classifier: h.corpus.ClassifierEnabled(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.queue != nil {
		qs := h.queue.Status()
		response.Queue = &qs
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 語料庫為空時回應 503
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if !h.corpus.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "corpus is empty"})
		return
	}
	if h.queue != nil && h.queue.Status().Closed {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": "queue is closed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
