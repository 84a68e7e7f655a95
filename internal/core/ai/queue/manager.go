package queue

import (
	"context"
	"errors"
	"sync/atomic"

	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrQueueFull 等待中的請求已達上限
var ErrQueueFull = errors.New("generator queue is full")

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	Running        int   `json:"running"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Manager 限制同時進行的外部生成呼叫
type Manager struct {
	config    config.QueueConfig
	slots     chan struct{}
	waiting   atomic.Int64
	processed atomic.Int64
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Manager{
		config: cfg,
		slots:  make(chan struct{}, cfg.Workers),
	}
}

// Acquire 取得執行名額，回傳的 release 必須呼叫一次
func (m *Manager) Acquire(ctx context.Context) (func(), error) {
	select {
	case m.slots <- struct{}{}:
		return m.release, nil
	default:
	}

	if n := m.waiting.Add(1); n > int64(m.config.MaxSize) {
		m.waiting.Add(-1)
		common.LogWarn("Generator queue full",
			zap.Int("max_queue_size", m.config.MaxSize),
			zap.Int("workers", m.config.Workers),
		)
		return nil, ErrQueueFull
	}
	defer m.waiting.Add(-1)

	select {
	case m.slots <- struct{}{}:
		return m.release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *Manager) release() {
	<-m.slots
	m.processed.Add(1)
}

// Status 獲取隊列狀態
func (m *Manager) Status() Status {
	return Status{
		QueueLength:    int(m.waiting.Load()),
		Running:        len(m.slots),
		ProcessedCount: m.processed.Load(),
		MaxQueueSize:   m.config.MaxSize,
		Workers:        m.config.Workers,
	}
}
