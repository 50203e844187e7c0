package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlayerRepo 内存版玩家仓储
type fakePlayerRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	entries  map[string]*model.CollectionEntry
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{
		balances: make(map[string]int64),
		entries:  make(map[string]*model.CollectionEntry),
	}
}

func entryKey(userID, characterValue string) string {
	return userID + "|" + characterValue
}

func (r *fakePlayerRepo) GetBalance(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[userID], nil
}

func (r *fakePlayerRepo) DebitBalance(_ context.Context, userID string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.balances[userID] < amount {
		return 0, errors.New("debit rejected")
	}
	r.balances[userID] -= amount
	return r.balances[userID], nil
}

func (r *fakePlayerRepo) CreditBalance(_ context.Context, userID string, amount int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[userID] += amount
	return r.balances[userID], nil
}

func (r *fakePlayerRepo) GetCollectionEntry(_ context.Context, userID, characterValue string) (*model.CollectionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[entryKey(userID, characterValue)]
	if !ok {
		return nil, nil
	}
	clone := *entry
	return &clone, nil
}

func (r *fakePlayerRepo) UpsertCollectionEntry(_ context.Context, entry *model.CollectionEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	clone.UpdatedAt = time.Now()
	r.entries[entryKey(entry.UserID, entry.CharacterValue)] = &clone
	return nil
}

func (r *fakePlayerRepo) ListCollection(_ context.Context, userID string) ([]*model.CollectionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var entries []*model.CollectionEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			clone := *entry
			entries = append(entries, &clone)
		}
	}
	return entries, nil
}

func newTestCollectionService(repo *fakePlayerRepo) *CollectionService {
	return NewCollectionService(gameconfig.NewStaticProvider(nil), repo, logger.NewNoop())
}

var (
	testCharR  = &model.Character{Value: "miku", Label: "Miku", Rarity: model.RarityR}
	testCharSR = &model.Character{Value: "rin", Label: "Rin", Rarity: model.RaritySR}
)

// TestApplyFirstTime 首次获得按稀有度初始化
func TestApplyFirstTime(t *testing.T) {
	s := newTestCollectionService(newFakePlayerRepo())

	outcome, err := s.Apply(context.Background(), "u1", testCharR)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeFirstTime, outcome.Kind)
	assert.Equal(t, int32(1), outcome.Level)
	assert.Equal(t, int32(10), outcome.XPNow)
	assert.Equal(t, int32(50), outcome.XPMax)
	assert.Equal(t, int32(0), outcome.XPAdded)
}

// TestApplyDuplicate 重复获得累加经验但未升级
func TestApplyDuplicate(t *testing.T) {
	s := newTestCollectionService(newFakePlayerRepo())
	ctx := context.Background()

	_, err := s.Apply(ctx, "u1", testCharR)
	require.NoError(t, err)

	outcome, err := s.Apply(ctx, "u1", testCharR)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeDuplicate, outcome.Kind)
	assert.Equal(t, int32(1), outcome.Level)
	assert.Equal(t, int32(15), outcome.XPNow)
	assert.Equal(t, int32(50), outcome.XPMax)
	assert.Equal(t, int32(5), outcome.XPAdded)
}

// TestApplyLevelUp 经验到达上限后升级，最低稀有度首次升级用特殊增量
func TestApplyLevelUp(t *testing.T) {
	s := newTestCollectionService(newFakePlayerRepo())
	ctx := context.Background()

	_, err := s.Apply(ctx, "u1", testCharR)
	require.NoError(t, err)

	// 初始 10/50，每次重复 +5，第 8 次重复时到达 50
	var outcome *model.LedgerOutcome
	for i := 0; i < 8; i++ {
		outcome, err = s.Apply(ctx, "u1", testCharR)
		require.NoError(t, err)
	}

	assert.Equal(t, model.OutcomeLevelUp, outcome.Kind)
	assert.Equal(t, int32(2), outcome.Level)
	assert.Equal(t, int32(1), outcome.PrevLevel)
	assert.Equal(t, int32(0), outcome.XPNow)
	assert.Equal(t, int32(75), outcome.XPMax)
}

// TestApplyLevelUpGrowth 非最低稀有度升级用常规增量
func TestApplyLevelUpGrowth(t *testing.T) {
	repo := newFakePlayerRepo()
	s := newTestCollectionService(repo)
	ctx := context.Background()

	// 直接放置一条临近升级的记录
	require.NoError(t, repo.UpsertCollectionEntry(ctx, &model.CollectionEntry{
		UserID:         "u1",
		CharacterValue: testCharSR.Value,
		Level:          1,
		XPNow:          95,
		XPMax:          100,
	}))

	outcome, err := s.Apply(ctx, "u1", testCharSR)
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeLevelUp, outcome.Kind)
	assert.Equal(t, int32(2), outcome.Level)
	assert.Equal(t, int32(5), outcome.XPNow)
	assert.Equal(t, int32(150), outcome.XPMax)
}

// TestApplyDeterministic 相同输入序列产生相同结果
func TestApplyDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func() []*model.LedgerOutcome {
		s := newTestCollectionService(newFakePlayerRepo())
		var outcomes []*model.LedgerOutcome
		for i := 0; i < 20; i++ {
			outcome, err := s.Apply(ctx, "u1", testCharR)
			require.NoError(t, err)
			outcomes = append(outcomes, outcome)
		}
		return outcomes
	}

	assert.Equal(t, run(), run())
}

// TestApplyUnknownRarity 未配置稀有度报错
func TestApplyUnknownRarity(t *testing.T) {
	s := newTestCollectionService(newFakePlayerRepo())

	_, err := s.Apply(context.Background(), "u1", &model.Character{Value: "x", Rarity: "ur"})
	assert.Error(t, err)
}

// TestGrant 管理员发放走同一结算路径
func TestGrant(t *testing.T) {
	s := newTestCollectionService(newFakePlayerRepo())
	ctx := context.Background()

	outcome, err := s.Grant(ctx, "u1", testCharSR)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFirstTime, outcome.Kind)

	entries, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, testCharSR.Value, entries[0].CharacterValue)
}
