package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/repository"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// CollectionService 图鉴收集与成长服务
type CollectionService struct {
	logger  logger.Logger
	tables  gameconfig.Provider
	players repository.PlayerRepository
}

// NewCollectionService 创建图鉴服务
func NewCollectionService(
	tables gameconfig.Provider,
	players repository.PlayerRepository,
	l logger.Logger,
) *CollectionService {
	return &CollectionService{
		logger:  l.Named("service.collection"),
		tables:  tables,
		players: players,
	}
}

// Apply 将一次抽取结果入账
// 首次获得按稀有度初始化等级与经验；重复获得累加经验并结算升级
func (s *CollectionService) Apply(ctx context.Context, userID string, character *model.Character) (*model.LedgerOutcome, error) {
	stats := s.tables.Tables().StatsFor(character.Rarity)
	if stats == nil {
		return nil, errors.Newf("no stats configured for rarity %q", character.Rarity)
	}

	entry, err := s.players.GetCollectionEntry(ctx, userID, character.Value)
	if err != nil {
		return nil, err
	}

	if entry == nil {
		entry = &model.CollectionEntry{
			UserID:         userID,
			CharacterValue: character.Value,
			Level:          stats.StartLevel,
			XPNow:          stats.StartXP,
			XPMax:          stats.XPMax,
		}
		if err := s.players.UpsertCollectionEntry(ctx, entry); err != nil {
			return nil, err
		}

		s.logger.Debug("character acquired",
			"user_id", userID,
			"character", character.Value,
			"rarity", character.Rarity)

		return &model.LedgerOutcome{
			Kind:      model.OutcomeFirstTime,
			Level:     entry.Level,
			PrevLevel: entry.Level,
			XPNow:     entry.XPNow,
			XPMax:     entry.XPMax,
		}, nil
	}

	prevLevel := entry.Level
	entry.XPNow += stats.DuplicateXP

	// 溢出的经验结转下一级，可能连续升级
	for entry.XPNow >= entry.XPMax {
		entry.XPNow -= entry.XPMax

		growth := stats.XPMaxGrowth
		if entry.Level == 1 && stats.FirstLevelGrowth > 0 {
			growth = stats.FirstLevelGrowth
		}
		entry.Level++
		entry.XPMax += growth
	}

	if err := s.players.UpsertCollectionEntry(ctx, entry); err != nil {
		return nil, err
	}

	kind := model.OutcomeDuplicate
	if entry.Level > prevLevel {
		kind = model.OutcomeLevelUp
		s.logger.Debug("character leveled up",
			"user_id", userID,
			"character", character.Value,
			"level", entry.Level)
	}

	return &model.LedgerOutcome{
		Kind:      kind,
		Level:     entry.Level,
		PrevLevel: prevLevel,
		XPNow:     entry.XPNow,
		XPMax:     entry.XPMax,
		XPAdded:   stats.DuplicateXP,
	}, nil
}

// Grant 管理员直接发放角色，与抽取入账走同一结算路径
func (s *CollectionService) Grant(ctx context.Context, userID string, character *model.Character) (*model.LedgerOutcome, error) {
	outcome, err := s.Apply(ctx, userID, character)
	if err != nil {
		return nil, err
	}

	s.logger.Info("character granted",
		"user_id", userID,
		"character", character.Value,
		"kind", outcome.Kind)
	return outcome, nil
}

// List 返回玩家的全部收集记录
func (s *CollectionService) List(ctx context.Context, userID string) ([]*model.CollectionEntry, error) {
	return s.players.ListCollection(ctx, userID)
}
