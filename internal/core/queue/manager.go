// Package queue 以固定數量的 worker 處理推薦計算，限制同時進行的請求
package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// Task 隊列中執行的工作
type Task func(ctx context.Context) (interface{}, error)

// request 隊列請求
type request struct {
	ctx    context.Context
	task   Task
	result chan result
}

// result 處理結果
type result struct {
	value interface{}
	err   error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	RejectedCount  int64 `json:"rejected_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
	Closed         bool  `json:"closed"`
}

// Manager 隊列管理器
type Manager struct {
	workers int
	maxSize int
	queue   chan *request

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	processed atomic.Int64
	rejected  atomic.Int64
}

// NewManager 創建隊列管理器並啟動 worker
func NewManager(cfg config.QueueConfig) *Manager {
	workers := max(cfg.Workers, 1)
	maxSize := max(cfg.MaxSize, 1)

	m := &Manager{
		workers: workers,
		maxSize: maxSize,
		queue:   make(chan *request, maxSize),
	}

	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(i)
	}

	common.LogInfo("請求隊列已啟動",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", maxSize),
	)
	return m
}

// Submit 將工作加入隊列並等待結果
//
// 隊列已滿時立即回傳 common.ErrQueueFull，不會阻塞。
func (m *Manager) Submit(ctx context.Context, task Task) (interface{}, error) {
	req := &request{
		ctx:    ctx,
		task:   task,
		result: make(chan result, 1),
	}

	if err := m.enqueue(req); err != nil {
		return nil, err
	}

	select {
	case res := <-req.result:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) enqueue(req *request) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return common.ErrQueueClosed
	}

	select {
	case m.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return nil
	default:
		m.rejected.Add(1)
		common.LogWarn("隊列已滿", zap.Int("max_queue_size", m.maxSize))
		return common.ErrQueueFull
	}
}

// worker 處理隊列中的請求
func (m *Manager) worker(id int) {
	defer m.wg.Done()

	for req := range m.queue {
		// 呼叫端已放棄的請求不再計算
		if err := req.ctx.Err(); err != nil {
			req.result <- result{err: err}
			continue
		}

		value, err := m.run(req)
		m.processed.Add(1)
		req.result <- result{value: value, err: err}
	}

	common.LogDebug("worker 已停止", zap.Int("worker", id))
}

func (m *Manager) run(req *request) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("工作執行時發生 panic", zap.Any("panic", r))
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return req.task(req.ctx)
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		QueueLength:    len(m.queue),
		ProcessedCount: m.processed.Load(),
		RejectedCount:  m.rejected.Load(),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
		Closed:         m.closed,
	}
}

// Close 停止接受新請求，等待已排入的工作完成
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
	common.LogInfo("請求隊列已關閉", zap.Int64("processed", m.processed.Load()))
}
