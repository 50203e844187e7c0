package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// SelectStrategy 候选角色选取策略
// featured 为当前卡池的 up 角色集合，策略可据此调整各候选的权重
type SelectStrategy func(rng *rand.Rand, candidates []string, featured map[string]struct{}) string

// UniformSelect 等概率选取
func UniformSelect(rng *rand.Rand, candidates []string, _ map[string]struct{}) string {
	return candidates[rng.Intn(len(candidates))]
}

// FeaturedBoostSelect up 角色双倍权重选取
func FeaturedBoostSelect(rng *rand.Rand, candidates []string, featured map[string]struct{}) string {
	if len(featured) == 0 {
		return UniformSelect(rng, candidates, nil)
	}

	var total int64
	for _, value := range candidates {
		if _, ok := featured[value]; ok {
			total += 2
		} else {
			total++
		}
	}

	x := rng.Int63n(total)
	for _, value := range candidates {
		var weight int64 = 1
		if _, ok := featured[value]; ok {
			weight = 2
		}
		if x < weight {
			return value
		}
		x -= weight
	}

	// 权重遍历覆盖 [0, total)，不可达
	return candidates[len(candidates)-1]
}

// RarityService 稀有度随机服务
// 持有抽取路径上唯一的随机源，通过互斥锁保证并发安全
type RarityService struct {
	logger   logger.Logger
	mu       sync.Mutex
	rng      *rand.Rand
	strategy SelectStrategy
}

// RarityServiceOption 稀有度服务选项
type RarityServiceOption func(*RarityService)

// WithRandSource 指定随机源 (测试用固定种子)
func WithRandSource(source rand.Source) RarityServiceOption {
	return func(s *RarityService) {
		s.rng = rand.New(source)
	}
}

// WithSelectStrategy 指定候选选取策略
func WithSelectStrategy(strategy SelectStrategy) RarityServiceOption {
	return func(s *RarityService) {
		s.strategy = strategy
	}
}

// NewRarityService 创建稀有度随机服务
func NewRarityService(l logger.Logger, opts ...RarityServiceOption) *RarityService {
	s := &RarityService{
		logger:   l.Named("service.rarity"),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		strategy: UniformSelect,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PickRarity 按权重随机一个稀有度
// 在 [0, 总权重) 上取随机数，按从低到高的固定顺序扣减权重
func (s *RarityService) PickRarity(weights map[model.Rarity]int64) (model.Rarity, error) {
	var total int64
	for _, rarity := range model.AllRarities() {
		weight, ok := weights[rarity]
		if !ok {
			continue
		}
		if weight <= 0 {
			return "", errors.Newf("weight for rarity %q must be positive, got %d", rarity, weight)
		}
		total += weight
	}
	if total <= 0 {
		return "", errors.New("weight table is empty")
	}

	s.mu.Lock()
	x := s.rng.Int63n(total)
	s.mu.Unlock()

	for _, rarity := range model.AllRarities() {
		weight := weights[rarity]
		if weight <= 0 {
			continue
		}
		if x < weight {
			return rarity, nil
		}
		x -= weight
	}

	// total 为各权重之和，x < total 必然命中某个稀有度
	return "", errors.AssertionFailedf("weighted walk fell through, x=%d total=%d", x, total)
}

// SelectCharacter 从候选集中按当前策略选取一个角色
func (s *RarityService) SelectCharacter(candidates []string, featured map[string]struct{}) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("candidate pool is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strategy(s.rng, candidates, featured), nil
}

// CorrectPity 十连保底修正
// 整批都是最低稀有度时重抽至多 maxRetry 次，抽出非最低稀有度后替换第一个槽位
// 重抽耗尽时返回 ErrPityExhausted，原结果保持不变
func (s *RarityService) CorrectPity(picks []model.Rarity, weights map[model.Rarity]int64, maxRetry int) ([]model.Rarity, error) {
	lowest := model.LowestRarity()
	for _, rarity := range picks {
		if rarity != lowest {
			return picks, nil
		}
	}

	for i := 0; i < maxRetry; i++ {
		rarity, err := s.PickRarity(weights)
		if err != nil {
			return nil, err
		}
		if rarity != lowest {
			corrected := make([]model.Rarity, len(picks))
			copy(corrected, picks)
			corrected[0] = rarity

			s.logger.Info("pity correction applied", "rarity", rarity, "retries", i+1)
			return corrected, nil
		}
	}

	return nil, errors.Wrapf(ErrPityExhausted, "after %d rerolls", maxRetry)
}
