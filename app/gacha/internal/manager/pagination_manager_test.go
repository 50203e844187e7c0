package manager

import (
	"sync"
	"testing"
	"time"

	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

func newTestSession(handle string, pages int) *model.RollSession {
	results := make([]*model.DrawResult, pages)
	for i := range results {
		results[i] = &model.DrawResult{
			Character: &model.Character{Value: "c1", Rarity: model.RarityR},
			Outcome:   &model.LedgerOutcome{Kind: model.OutcomeDuplicate},
		}
	}
	return model.NewRollSession(handle, "u1", results, &model.FinalSummary{
		UserID:        "u1",
		Results:       results,
		HighestRarity: model.RarityR,
	})
}

func newTestManager(ttl time.Duration, onExpire ExpireFunc) *PaginationManager {
	return NewPaginationManager(ttl, onExpire, logger.NewNoop(), metrics.New(nil))
}

// TestPaginationCreateGet 测试会话登记与查询
func TestPaginationCreateGet(t *testing.T) {
	m := newTestManager(time.Minute, nil)
	defer m.Close()

	m.Create(newTestSession("h1", 10))

	view := m.Get("h1")
	if view == nil {
		t.Fatal("Get(h1) = nil")
	}
	if view.Page != 0 || view.PageCount != 10 {
		t.Errorf("Get(h1) page = %d pageCount = %d, want 0 and 10", view.Page, view.PageCount)
	}

	if m.Get("unknown") != nil {
		t.Error("Get(unknown) expected nil")
	}
}

// TestPaginationAdvanceClamped 测试翻页在两端被钳制
func TestPaginationAdvanceClamped(t *testing.T) {
	m := newTestManager(time.Minute, nil)
	defer m.Close()

	m.Create(newTestSession("h1", 10))

	// 首页向前翻保持首页
	view := m.AdvancePage("h1", -1)
	if view.Page != 0 {
		t.Errorf("AdvancePage(-1) at first page = %d, want 0", view.Page)
	}

	view = m.AdvancePage("h1", 3)
	if view.Page != 3 {
		t.Errorf("AdvancePage(+3) = %d, want 3", view.Page)
	}

	// 越过末页钳制到末页
	view = m.AdvancePage("h1", 100)
	if view.Page != 9 {
		t.Errorf("AdvancePage(+100) = %d, want 9", view.Page)
	}
	view = m.AdvancePage("h1", 1)
	if view.Page != 9 {
		t.Errorf("AdvancePage(+1) at last page = %d, want 9", view.Page)
	}

	if m.AdvancePage("unknown", 1) != nil {
		t.Error("AdvancePage(unknown) expected nil")
	}
}

// TestPaginationFinalizeOnce 测试终局只能发生一次
func TestPaginationFinalizeOnce(t *testing.T) {
	m := newTestManager(time.Minute, nil)
	defer m.Close()

	m.Create(newTestSession("h1", 10))

	final := m.Finalize("h1")
	if final == nil {
		t.Fatal("Finalize(h1) = nil")
	}
	if final.UserID != "u1" || len(final.Results) != 10 {
		t.Errorf("Finalize(h1) = %+v", final)
	}

	if m.Finalize("h1") != nil {
		t.Error("Finalize(h1) second call expected nil")
	}
	if m.Get("h1") != nil {
		t.Error("Get(h1) after finalize expected nil")
	}
}

// TestPaginationExpireIdempotent 测试过期幂等且回调只触发一次
func TestPaginationExpireIdempotent(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	m := newTestManager(time.Minute, func(handle string, final *model.FinalSummary) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	defer m.Close()

	m.Create(newTestSession("h1", 10))

	m.Expire("h1")
	m.Expire("h1")
	m.Expire("unknown")

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("expire callback fired %d times, want 1", fired)
	}
}

// TestPaginationExpireAfterFinalize 终局后的超时不再触发回调
func TestPaginationExpireAfterFinalize(t *testing.T) {
	fired := 0
	m := newTestManager(time.Minute, func(handle string, final *model.FinalSummary) {
		fired++
	})
	defer m.Close()

	m.Create(newTestSession("h1", 10))
	m.Finalize("h1")
	m.Expire("h1")

	if fired != 0 {
		t.Errorf("expire callback fired %d times, want 0", fired)
	}
}

// TestPaginationTimerExpiry 测试定时器到期自动过期
func TestPaginationTimerExpiry(t *testing.T) {
	done := make(chan string, 1)
	m := newTestManager(20*time.Millisecond, func(handle string, final *model.FinalSummary) {
		done <- handle
	})
	defer m.Close()

	m.Create(newTestSession("h1", 10))

	select {
	case handle := <-done:
		if handle != "h1" {
			t.Errorf("expired handle = %q, want h1", handle)
		}
	case <-time.After(time.Second):
		t.Fatal("session did not expire")
	}

	if m.Get("h1") != nil {
		t.Error("Get(h1) after expiry expected nil")
	}
}

// TestPaginationCreateReplaces 同句柄重复登记替换旧会话且不触发回调
func TestPaginationCreateReplaces(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	m := newTestManager(time.Minute, func(handle string, final *model.FinalSummary) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	defer m.Close()

	m.Create(newTestSession("h1", 10))
	m.AdvancePage("h1", 5)
	m.Create(newTestSession("h1", 10))

	view := m.Get("h1")
	if view.Page != 0 {
		t.Errorf("Get(h1) after replace page = %d, want 0", view.Page)
	}

	mu.Lock()
	defer mu.Unlock()
	if fired != 0 {
		t.Errorf("expire callback fired %d times, want 0", fired)
	}
}

// TestPaginationSweepExpired 测试兜底清理
func TestPaginationSweepExpired(t *testing.T) {
	var mu sync.Mutex
	fired := 0
	m := newTestManager(time.Minute, func(handle string, final *model.FinalSummary) {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	defer m.Close()

	stale := newTestSession("h1", 10)
	stale.CreatedAt = time.Now().Add(-2 * time.Minute)
	m.Create(stale)
	m.Create(newTestSession("h2", 10))

	swept := m.SweepExpired()
	if swept != 1 {
		t.Errorf("SweepExpired() = %d, want 1", swept)
	}
	if m.Get("h1") != nil {
		t.Error("Get(h1) after sweep expected nil")
	}
	if m.Get("h2") == nil {
		t.Error("Get(h2) after sweep expected session")
	}

	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("expire callback fired %d times, want 1", fired)
	}
}
