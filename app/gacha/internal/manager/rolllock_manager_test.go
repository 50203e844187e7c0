package manager

import (
	"sync"
	"testing"

	"github.com/lk2023060901/gambatt/pkg/logger"
)

// TestRollLockAcquireRelease 测试锁的获取与释放
func TestRollLockAcquireRelease(t *testing.T) {
	m := NewRollLockManager(logger.NewNoop())

	if !m.TryAcquire("u1") {
		t.Fatal("TryAcquire(u1) = false, want true")
	}
	if m.TryAcquire("u1") {
		t.Error("TryAcquire(u1) second call = true, want false")
	}
	if !m.IsRolling("u1") {
		t.Error("IsRolling(u1) = false, want true")
	}

	// 不同玩家互不影响
	if !m.TryAcquire("u2") {
		t.Error("TryAcquire(u2) = false, want true")
	}
	if m.ActiveCount() != 2 {
		t.Errorf("ActiveCount() = %d, want 2", m.ActiveCount())
	}

	m.Release("u1")
	if m.IsRolling("u1") {
		t.Error("IsRolling(u1) after release = true, want false")
	}
	if !m.TryAcquire("u1") {
		t.Error("TryAcquire(u1) after release = false, want true")
	}
}

// TestRollLockReleaseIdempotent 测试重复释放为空操作
func TestRollLockReleaseIdempotent(t *testing.T) {
	m := NewRollLockManager(logger.NewNoop())

	m.Release("u1")
	if m.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", m.ActiveCount())
	}
}

// TestRollLockConcurrent 并发下同一玩家只有一次获取成功
func TestRollLockConcurrent(t *testing.T) {
	m := NewRollLockManager(logger.NewNoop())

	const n = 64
	var wg sync.WaitGroup
	var mu sync.Mutex
	acquired := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.TryAcquire("u1") {
				mu.Lock()
				acquired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if acquired != 1 {
		t.Errorf("acquired = %d, want 1", acquired)
	}
}
