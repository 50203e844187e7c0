package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/manager"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/repository"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// 抽取模式标签 (指标用)
const (
	modeSingle = "single"
	modeTen    = "ten"
)

// RollService 抽取编排服务
// 串联锁、配置表、稀有度随机、扣费与图鉴入账，是抽取操作的唯一入口
type RollService struct {
	logger     logger.Logger
	tables     gameconfig.Provider
	rarity     *RarityService
	collection *CollectionService
	wallet     *WalletService
	catalog    repository.CatalogRepository
	locks      *manager.RollLockManager
	sessions   *manager.PaginationManager
	metrics    *metrics.GachaMetrics
}

// NewRollService 创建抽取编排服务
func NewRollService(
	tables gameconfig.Provider,
	rarity *RarityService,
	collection *CollectionService,
	wallet *WalletService,
	catalog repository.CatalogRepository,
	locks *manager.RollLockManager,
	sessions *manager.PaginationManager,
	m *metrics.GachaMetrics,
	l logger.Logger,
) *RollService {
	return &RollService{
		logger:     l.Named("service.roll"),
		tables:     tables,
		rarity:     rarity,
		collection: collection,
		wallet:     wallet,
		catalog:    catalog,
		locks:      locks,
		sessions:   sessions,
		metrics:    m,
	}
}

// Roll 单抽
func (s *RollService) Roll(ctx context.Context, userID string) (*model.RollResult, error) {
	return s.roll(ctx, userID, 1, modeSingle, "")
}

// RollTen 十连，结果登记为以 handle 为 key 的翻页会话
func (s *RollService) RollTen(ctx context.Context, userID, handle string) (*model.RollResult, error) {
	return s.roll(ctx, userID, s.tables.Tables().BatchSize, modeTen, handle)
}

func (s *RollService) roll(ctx context.Context, userID string, count int, mode, handle string) (*model.RollResult, error) {
	start := time.Now()

	// 同一玩家同一时刻只允许一次抽取
	if !s.locks.TryAcquire(userID) {
		s.metrics.RecordDrawFailure(mode, "busy")
		return nil, ErrRollBusy
	}
	defer s.locks.Release(userID)

	tables := s.tables.Tables()
	weights := tables.WeightTable()

	// 1. 随机稀有度；十连整批为最低稀有度时触发保底修正
	picks := make([]model.Rarity, count)
	for i := range picks {
		rarity, err := s.rarity.PickRarity(weights)
		if err != nil {
			s.metrics.RecordDrawFailure(mode, "pick")
			return nil, err
		}
		picks[i] = rarity
	}
	if count > 1 {
		corrected, err := s.rarity.CorrectPity(picks, weights, tables.PityMaxRetry)
		if err != nil {
			s.metrics.RecordDrawFailure(mode, "pity")
			return nil, err
		}
		picks = corrected
	}

	// 2. 扣费前校验各稀有度候选池非空，避免扣了钱却无法出货
	pools := make(map[model.Rarity][]string)
	for _, rarity := range picks {
		if _, ok := pools[rarity]; ok {
			continue
		}
		candidates, err := s.catalog.ListByRarity(ctx, rarity)
		if err != nil {
			s.metrics.RecordDrawFailure(mode, "catalog")
			return nil, err
		}
		if len(candidates) == 0 {
			s.metrics.RecordDrawFailure(mode, "empty_pool")
			return nil, &EmptyCandidatePoolError{Rarity: rarity}
		}
		pools[rarity] = candidates
	}

	featuredList, err := s.catalog.GetFeaturedSet(ctx)
	if err != nil {
		s.metrics.RecordDrawFailure(mode, "catalog")
		return nil, err
	}
	featured := make(map[string]struct{}, len(featuredList))
	for _, value := range featuredList {
		featured[value] = struct{}{}
	}

	// 3. 整批一次性扣费
	balance, err := s.wallet.Charge(ctx, userID, tables.RollCost*int64(count))
	if err != nil {
		s.metrics.RecordDrawFailure(mode, "charge")
		return nil, err
	}

	// 4. 逐槽选取角色并入账
	results := make([]*model.DrawResult, count)
	for i, rarity := range picks {
		value, err := s.rarity.SelectCharacter(pools[rarity], featured)
		if err != nil {
			s.metrics.RecordDrawFailure(mode, "select")
			return nil, err
		}

		character, err := s.catalog.GetCharacter(ctx, value)
		if err != nil {
			s.metrics.RecordDrawFailure(mode, "catalog")
			return nil, err
		}

		outcome, err := s.collection.Apply(ctx, userID, character)
		if err != nil {
			// 已扣费且前序槽位已入账，此处不回滚，只记录不一致
			s.logger.Warn("batch left partially applied after charge",
				"user_id", userID,
				"applied", i,
				"count", count)
			s.metrics.RecordDrawFailure(mode, "ledger")
			return nil, err
		}

		results[i] = &model.DrawResult{Character: character, Outcome: outcome}
		s.metrics.RecordDraw(mode, string(rarity))
	}

	result := &model.RollResult{
		DrawID:        uuid.NewString(),
		UserID:        userID,
		Results:       results,
		Balance:       balance,
		HighestRarity: model.HighestRarity(picks),
	}

	// 5. 十连登记翻页会话
	if mode == modeTen && handle != "" {
		s.sessions.Create(model.NewRollSession(handle, userID, results, &model.FinalSummary{
			UserID:        userID,
			Results:       results,
			HighestRarity: result.HighestRarity,
		}))
	}

	s.metrics.RecordDrawDuration(mode, time.Since(start).Seconds())
	s.logger.Info("roll completed",
		"draw_id", result.DrawID,
		"user_id", userID,
		"mode", mode,
		"highest", result.HighestRarity,
		"balance", balance)

	return result, nil
}

// GetPage 查询翻页会话当前页
func (s *RollService) GetPage(handle string) *model.PageView {
	return s.sessions.Get(handle)
}

// AdvancePage 翻页
func (s *RollService) AdvancePage(handle string, delta int) *model.PageView {
	return s.sessions.AdvancePage(handle, delta)
}

// Finalize 玩家主动终局
func (s *RollService) Finalize(handle string) *model.FinalSummary {
	return s.sessions.Finalize(handle)
}
