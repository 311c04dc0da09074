package workplace

import (
	"sync"

	"wisefido-motion/internal/models"
)

// Ledger 按用户的违规状态（计数只增不减，日志只追加）
// 首次违规时创建用户状态，进程生命周期内保留
type Ledger struct {
	mu    sync.RWMutex
	users map[string]*userLedger
}

type userLedger struct {
	mu         sync.Mutex
	count      int
	violations []models.Violation
}

// NewLedger 创建违规状态存储
func NewLedger() *Ledger {
	return &Ledger{
		users: make(map[string]*userLedger),
	}
}

func (l *Ledger) user(userID string) *userLedger {
	l.mu.RLock()
	u, ok := l.users[userID]
	l.mu.RUnlock()
	if ok {
		return u
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if u, ok = l.users[userID]; !ok {
		u = &userLedger{}
		l.users[userID] = u
	}
	return u
}

// Record 追加一批违规，返回追加后的计数（同一用户串行）
func (l *Ledger) Record(userID string, violations []models.Violation) int {
	u := l.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.count += len(violations)
	u.violations = append(u.violations, violations...)
	return u.count
}

// Count 当前累计违规数；未知用户为 0
func (l *Ledger) Count(userID string) int {
	l.mu.RLock()
	u, ok := l.users[userID]
	l.mu.RUnlock()
	if !ok {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

// Violations 违规日志副本
func (l *Ledger) Violations(userID string) []models.Violation {
	l.mu.RLock()
	u, ok := l.users[userID]
	l.mu.RUnlock()
	if !ok {
		return nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]models.Violation(nil), u.violations...)
}
