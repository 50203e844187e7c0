package manager

import (
	"sync"

	"github.com/lk2023060901/gambatt/pkg/logger"
)

// RollLockManager 抽取互斥锁管理器
// 同一玩家同一时刻只能有一次抽取在进行中，防止并发扣费
type RollLockManager struct {
	mu      sync.Mutex
	rolling map[string]struct{}
	logger  logger.Logger
}

// NewRollLockManager 创建抽取锁管理器
func NewRollLockManager(l logger.Logger) *RollLockManager {
	return &RollLockManager{
		rolling: make(map[string]struct{}),
		logger:  l.Named("manager.rolllock"),
	}
}

// TryAcquire 尝试获取玩家的抽取锁，已被占用时返回 false
func (m *RollLockManager) TryAcquire(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rolling[userID]; ok {
		return false
	}
	m.rolling[userID] = struct{}{}
	return true
}

// Release 释放玩家的抽取锁，未持有时为空操作
func (m *RollLockManager) Release(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rolling, userID)
}

// IsRolling 玩家是否有抽取进行中
func (m *RollLockManager) IsRolling(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.rolling[userID]
	return ok
}

// ActiveCount 当前持锁的玩家数
func (m *RollLockManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rolling)
}
