package model

import "time"

// RollSession 十连结果的翻页会话，按外部消息句柄唯一
type RollSession struct {
	Handle    string        `json:"handle"`
	UserID    string        `json:"user_id"`
	Results   []*DrawResult `json:"results"`
	Final     *FinalSummary `json:"final"`
	Page      int           `json:"page"` // 当前页索引，恒在 [0, len(Results)-1] 内
	CreatedAt time.Time     `json:"created_at"`
}

// NewRollSession 创建翻页会话
func NewRollSession(handle, userID string, results []*DrawResult, final *FinalSummary) *RollSession {
	return &RollSession{
		Handle:    handle,
		UserID:    userID,
		Results:   results,
		Final:     final,
		CreatedAt: time.Now(),
	}
}

// PageCount 总页数
func (s *RollSession) PageCount() int {
	return len(s.Results)
}

// PageView 会话某一页的只读快照
type PageView struct {
	Handle    string      `json:"handle"`
	UserID    string      `json:"user_id"`
	Page      int         `json:"page"`
	PageCount int         `json:"page_count"`
	Result    *DrawResult `json:"result"`
}
