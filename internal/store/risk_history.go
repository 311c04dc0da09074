package store

import (
	"sync"

	"wisefido-motion/internal/models"
)

// RiskHistory 按用户累积的风险快照（旧→新，进程生命周期内不删除）
type RiskHistory struct {
	mu    sync.RWMutex
	users map[string][]models.RiskSnapshot
}

// NewRiskHistory 创建风险快照历史
func NewRiskHistory() *RiskHistory {
	return &RiskHistory{
		users: make(map[string][]models.RiskSnapshot),
	}
}

// Append 追加一条快照
func (h *RiskHistory) Append(userID string, snapshot models.RiskSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.users[userID] = append(h.users[userID], snapshot)
}

// All 返回全部快照副本（审计用）
func (h *RiskHistory) All(userID string) []models.RiskSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.RiskSnapshot(nil), h.users[userID]...)
}
