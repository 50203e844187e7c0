package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/manager"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog 内存版图鉴目录
type fakeCatalog struct {
	characters map[string]*model.Character
	featured   []string
}

func newFakeCatalog() *fakeCatalog {
	catalog := &fakeCatalog{characters: make(map[string]*model.Character)}
	for _, rarity := range model.AllRarities() {
		for i := 0; i < 3; i++ {
			value := fmt.Sprintf("%s-%d", rarity, i)
			catalog.characters[value] = &model.Character{
				Value:  value,
				Label:  value,
				Rarity: rarity,
			}
		}
	}
	return catalog
}

func (c *fakeCatalog) ListByRarity(_ context.Context, rarity model.Rarity) ([]string, error) {
	var values []string
	for value, character := range c.characters {
		if character.Rarity == rarity {
			values = append(values, value)
		}
	}
	return values, nil
}

func (c *fakeCatalog) GetFeaturedSet(_ context.Context) ([]string, error) {
	return c.featured, nil
}

func (c *fakeCatalog) GetCharacter(_ context.Context, value string) (*model.Character, error) {
	character, ok := c.characters[value]
	if !ok {
		return nil, errors.Newf("character %q does not exist", value)
	}
	return character, nil
}

func (c *fakeCatalog) Invalidate(_ context.Context) error { return nil }

type rollFixture struct {
	service  *RollService
	players  *fakePlayerRepo
	catalog  *fakeCatalog
	locks    *manager.RollLockManager
	sessions *manager.PaginationManager
}

func newRollFixture(t *testing.T) *rollFixture {
	t.Helper()

	l := logger.NewNoop()
	m := metrics.New(nil)
	provider := gameconfig.NewStaticProvider(nil)

	players := newFakePlayerRepo()
	catalog := newFakeCatalog()
	locks := manager.NewRollLockManager(l)
	sessions := manager.NewPaginationManager(time.Minute, nil, l, m)
	t.Cleanup(sessions.Close)

	rarity := NewRarityService(l, WithRandSource(rand.NewSource(7)))
	collection := NewCollectionService(provider, players, l)
	wallet := NewWalletService(players, l)

	return &rollFixture{
		service:  NewRollService(provider, rarity, collection, wallet, catalog, locks, sessions, m, l),
		players:  players,
		catalog:  catalog,
		locks:    locks,
		sessions: sessions,
	}
}

// TestRollSingle 单抽扣费并返回结果
func TestRollSingle(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 200

	result, err := f.service.Roll(context.Background(), "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, result.DrawID)
	assert.Equal(t, "u1", result.UserID)
	assert.Equal(t, int64(40), result.Balance)
	require.Len(t, result.Results, 1)
	assert.Equal(t, result.Results[0].Character.Rarity, result.HighestRarity)
	assert.Equal(t, model.OutcomeFirstTime, result.Results[0].Outcome.Kind)

	// 单抽不产生翻页会话
	assert.Nil(t, f.service.GetPage("h1"))
}

// TestRollBusy 持锁玩家再次抽取被拒绝
func TestRollBusy(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 2000
	require.True(t, f.locks.TryAcquire("u1"))

	_, err := f.service.Roll(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrRollBusy)

	// 其它玩家不受影响
	f.players.balances["u2"] = 200
	_, err = f.service.Roll(context.Background(), "u2")
	assert.NoError(t, err)
}

// TestRollInsufficientFunds 余额不足时不扣费且锁被释放
func TestRollInsufficientFunds(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 100

	_, err := f.service.Roll(context.Background(), "u1")

	var insufficientErr *InsufficientFundsError
	require.True(t, errors.As(err, &insufficientErr))

	balance, err := f.players.GetBalance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.False(t, f.locks.IsRolling("u1"))
}

// TestRollEmptyPool 候选池为空时在扣费前失败
func TestRollEmptyPool(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 100000
	for value, character := range f.catalog.characters {
		if character.Rarity == model.RarityR {
			delete(f.catalog.characters, value)
		}
	}

	// 足够多的尝试保证抽到 r
	var poolErr *EmptyCandidatePoolError
	sawEmptyPool := false
	for i := 0; i < 20 && !sawEmptyPool; i++ {
		if _, err := f.service.Roll(context.Background(), "u1"); errors.As(err, &poolErr) {
			sawEmptyPool = true
		}
	}
	require.True(t, sawEmptyPool)
	assert.Equal(t, model.RarityR, poolErr.Rarity)

	// 失败的尝试没有扣费
	balance, err := f.players.GetBalance(context.Background(), "u1")
	require.NoError(t, err)
	successes := (100000 - balance) / 160
	assert.Equal(t, int64(0), (100000-balance)%160)
	assert.Less(t, successes, int64(20))
	assert.False(t, f.locks.IsRolling("u1"))
}

// TestRollTen 十连扣十倍费用并登记翻页会话
func TestRollTen(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 2000

	result, err := f.service.RollTen(context.Background(), "u1", "h1")
	require.NoError(t, err)

	assert.Equal(t, int64(400), result.Balance)
	require.Len(t, result.Results, 10)

	view := f.service.GetPage("h1")
	require.NotNil(t, view)
	assert.Equal(t, 10, view.PageCount)
	assert.Equal(t, 0, view.Page)

	view = f.service.AdvancePage("h1", 3)
	assert.Equal(t, 3, view.Page)

	final := f.service.Finalize("h1")
	require.NotNil(t, final)
	assert.Equal(t, "u1", final.UserID)
	assert.Equal(t, result.HighestRarity, final.HighestRarity)
	assert.Nil(t, f.service.GetPage("h1"))
}

// TestRollTenPity 十连结果必然包含非最低稀有度或修正失败
func TestRollTenPity(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 1000000

	for i := 0; i < 50; i++ {
		result, err := f.service.RollTen(context.Background(), "u1", fmt.Sprintf("h%d", i))
		require.NoError(t, err)

		hasNonLowest := false
		for _, r := range result.Results {
			if r.Character.Rarity != model.LowestRarity() {
				hasNonLowest = true
				break
			}
		}
		assert.True(t, hasNonLowest, "batch %d has no non-lowest rarity", i)
	}
}

// TestRollLedgerProgression 重复抽到的角色经验累计
func TestRollLedgerProgression(t *testing.T) {
	f := newRollFixture(t)
	f.players.balances["u1"] = 1000000

	// 收缩候选池到单个角色，强制重复获得
	f.catalog.characters = map[string]*model.Character{
		"only-r":   {Value: "only-r", Rarity: model.RarityR},
		"only-sr":  {Value: "only-sr", Rarity: model.RaritySR},
		"only-ssr": {Value: "only-ssr", Rarity: model.RaritySSR},
	}

	first, err := f.service.Roll(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeFirstTime, first.Results[0].Outcome.Kind)

	for i := 0; i < 30; i++ {
		result, err := f.service.Roll(context.Background(), "u1")
		require.NoError(t, err)

		outcome := result.Results[0].Outcome
		if outcome.Kind != model.OutcomeFirstTime {
			assert.Positive(t, outcome.XPAdded)
		}
		assert.Less(t, outcome.XPNow, outcome.XPMax)
	}
}
