package sink

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type job struct {
	collection string
	payload    map[string]interface{}
}

// Async 后台写入：Push 立即返回，失败只记录日志
type Async struct {
	next    Sink
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

// NewAsync 创建并启动后台写入；queueSize 满时丢弃新写入
func NewAsync(next Sink, queueSize int, logger *zap.Logger) *Async {
	if queueSize <= 0 {
		queueSize = 1024
	}
	a := &Async{
		next:    next,
		logger:  logger,
		timeout: 5 * time.Second,
		queue:   make(chan job, queueSize),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

// Push 入队，不返回下游错误
func (a *Async) Push(_ context.Context, collection string, payload map[string]interface{}) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.logger.Warn("Sink closed, document dropped", zap.String("collection", collection))
		return nil
	}

	select {
	case a.queue <- job{collection: collection, payload: payload}:
	default:
		a.logger.Warn("Sink queue full, document dropped", zap.String("collection", collection))
	}
	return nil
}

func (a *Async) run() {
	defer a.wg.Done()
	for j := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Push(ctx, j.collection, j.payload); err != nil {
			a.logger.Error("Failed to write document",
				zap.String("collection", j.collection),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Close 停止接收并等待队列写完
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	a.wg.Wait()
}
