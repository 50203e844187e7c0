package manager

import (
	"sync"
	"time"

	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// ExpireFunc 会话超时回调，携带终局汇总供调用方渲染
// 每个会话至多触发一次
type ExpireFunc func(handle string, final *model.FinalSummary)

// sessionEntry 会话及其超时定时器
type sessionEntry struct {
	session *model.RollSession
	timer   *time.Timer
	done    bool // 已终局或已超时
}

// PaginationManager 十连翻页会话管理器
// 会话以外部消息句柄为 key，超时未终局的会话自动过期并触发回调
type PaginationManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	onExpire ExpireFunc
	logger   logger.Logger
	metrics  *metrics.GachaMetrics
}

// NewPaginationManager 创建翻页会话管理器
func NewPaginationManager(ttl time.Duration, onExpire ExpireFunc, l logger.Logger, m *metrics.GachaMetrics) *PaginationManager {
	return &PaginationManager{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
		onExpire: onExpire,
		logger:   l.Named("manager.pagination"),
		metrics:  m,
	}
}

// Create 登记翻页会话并启动超时定时器
// 同句柄重复登记时旧会话被直接替换，不触发过期回调
func (m *PaginationManager) Create(session *model.RollSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.sessions[session.Handle]; ok {
		old.timer.Stop()
		old.done = true
	}

	handle := session.Handle
	entry := &sessionEntry{session: session}
	entry.timer = time.AfterFunc(m.ttl, func() {
		// 绑定到本 entry，避免句柄被新会话复用时误伤
		m.expire(handle, entry)
	})
	m.sessions[handle] = entry

	m.metrics.SetActiveSessions(len(m.sessions))
	m.logger.Debug("roll session created",
		"handle", handle,
		"user_id", session.UserID,
		"pages", session.PageCount())
}

// Get 返回会话当前页的快照，会话不存在时返回 nil
func (m *PaginationManager) Get(handle string) *model.PageView {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[handle]
	if !ok {
		return nil
	}
	return pageView(entry.session)
}

// AdvancePage 按增量翻页并返回新页快照，页索引钳制在有效范围内
// 会话不存在时返回 nil
func (m *PaginationManager) AdvancePage(handle string, delta int) *model.PageView {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[handle]
	if !ok {
		return nil
	}

	session := entry.session
	page := session.Page + delta
	if page < 0 {
		page = 0
	}
	if last := session.PageCount() - 1; page > last {
		page = last
	}
	session.Page = page

	return pageView(session)
}

// Finalize 玩家主动终局，返回终局汇总并移除会话
// 会话不存在或已结束时返回 nil
func (m *PaginationManager) Finalize(handle string) *model.FinalSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[handle]
	if !ok || entry.done {
		return nil
	}

	entry.done = true
	entry.timer.Stop()
	delete(m.sessions, handle)

	m.metrics.SetActiveSessions(len(m.sessions))
	m.logger.Debug("roll session finalized", "handle", handle, "user_id", entry.session.UserID)

	return entry.session.Final
}

// Expire 会话超时处理，幂等；首次调用触发过期回调
func (m *PaginationManager) Expire(handle string) {
	m.expire(handle, nil)
}

// expire want 非 nil 时只过期该 entry，句柄已被新会话占用则放弃
func (m *PaginationManager) expire(handle string, want *sessionEntry) {
	m.mu.Lock()

	entry, ok := m.sessions[handle]
	if !ok || entry.done || (want != nil && entry != want) {
		m.mu.Unlock()
		return
	}

	entry.done = true
	entry.timer.Stop()
	delete(m.sessions, handle)

	final := entry.session.Final
	userID := entry.session.UserID
	m.metrics.SetActiveSessions(len(m.sessions))
	m.mu.Unlock()

	// 回调在锁外执行，避免回调再次进入管理器时死锁
	if m.onExpire != nil {
		m.onExpire(handle, final)
	}
	m.logger.Debug("roll session expired", "handle", handle, "user_id", userID)
}

// SweepExpired 兜底清理超过 TTL 仍未过期的会话，返回清理数量
// 定时任务调用，正常情况下定时器已先行处理
func (m *PaginationManager) SweepExpired() int {
	m.mu.Lock()
	deadline := time.Now().Add(-m.ttl)
	var stale []string
	for handle, entry := range m.sessions {
		if !entry.done && entry.session.CreatedAt.Before(deadline) {
			stale = append(stale, handle)
		}
	}
	m.mu.Unlock()

	for _, handle := range stale {
		m.Expire(handle)
	}

	if len(stale) > 0 {
		m.logger.Warn("swept stale roll sessions", "count", len(stale))
	}
	return len(stale)
}

// Close 停止全部定时器，不触发过期回调
func (m *PaginationManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.sessions {
		entry.timer.Stop()
		entry.done = true
	}
	m.sessions = make(map[string]*sessionEntry)
	m.metrics.SetActiveSessions(0)
}

// pageView 构建当前页快照，调用方须持有锁
func pageView(session *model.RollSession) *model.PageView {
	return &model.PageView{
		Handle:    session.Handle,
		UserID:    session.UserID,
		Page:      session.Page,
		PageCount: session.PageCount(),
		Result:    session.Results[session.Page],
	}
}
