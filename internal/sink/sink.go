package sink

import (
	"context"
	"errors"
	"sync"
)

// Sink 文档输出（只写）
type Sink interface {
	Push(ctx context.Context, collection string, payload map[string]interface{}) error
}

// Multi 扇出到多个 Sink，全部尝试后合并错误
type Multi []Sink

func (m Multi) Push(ctx context.Context, collection string, payload map[string]interface{}) error {
	var errs []error
	for _, s := range m {
		if err := s.Push(ctx, collection, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop 丢弃所有写入
type Nop struct{}

func (Nop) Push(context.Context, string, map[string]interface{}) error { return nil }

// Document 内存中的一条写入
type Document struct {
	Collection string
	Payload    map[string]interface{}
}

// Memory 内存 Sink，按写入顺序保存
type Memory struct {
	mu   sync.Mutex
	docs []Document
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Push(_ context.Context, collection string, payload map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = append(m.docs, Document{Collection: collection, Payload: payload})
	return nil
}

// Documents 返回副本
func (m *Memory) Documents() []Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Document, len(m.docs))
	copy(out, m.docs)
	return out
}

// Collection 过滤出某集合的写入
func (m *Memory) Collection(name string) []Document {
	var out []Document
	for _, d := range m.Documents() {
		if d.Collection == name {
			out = append(out, d)
		}
	}
	return out
}
