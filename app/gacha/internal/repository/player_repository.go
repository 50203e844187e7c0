package repository

import (
	"context"

	"github.com/lk2023060901/gambatt/app/gacha/internal/dao"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// PlayerRepository 玩家持久化端口
// 每个方法对应一次原子的持久化操作，仓储本身不包装多行事务
type PlayerRepository interface {
	// ===== 钱包相关 =====
	GetBalance(ctx context.Context, userID string) (int64, error)
	DebitBalance(ctx context.Context, userID string, amount int64) (int64, error)
	CreditBalance(ctx context.Context, userID string, amount int64) (int64, error)

	// ===== 图鉴收集相关 =====
	GetCollectionEntry(ctx context.Context, userID, characterValue string) (*model.CollectionEntry, error)
	UpsertCollectionEntry(ctx context.Context, entry *model.CollectionEntry) error
	ListCollection(ctx context.Context, userID string) ([]*model.CollectionEntry, error)
}

// playerRepositoryImpl 玩家仓储实现
type playerRepositoryImpl struct {
	walletDAO     *dao.WalletDAO
	collectionDAO *dao.CollectionDAO
	logger        logger.Logger
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(
	walletDAO *dao.WalletDAO,
	collectionDAO *dao.CollectionDAO,
	l logger.Logger,
) PlayerRepository {
	return &playerRepositoryImpl{
		walletDAO:     walletDAO,
		collectionDAO: collectionDAO,
		logger:        l.Named("repository.player"),
	}
}

func (r *playerRepositoryImpl) GetBalance(ctx context.Context, userID string) (int64, error) {
	return r.walletDAO.GetBalance(ctx, userID)
}

func (r *playerRepositoryImpl) DebitBalance(ctx context.Context, userID string, amount int64) (int64, error) {
	return r.walletDAO.Debit(ctx, userID, amount)
}

func (r *playerRepositoryImpl) CreditBalance(ctx context.Context, userID string, amount int64) (int64, error) {
	return r.walletDAO.Credit(ctx, userID, amount)
}

func (r *playerRepositoryImpl) GetCollectionEntry(ctx context.Context, userID, characterValue string) (*model.CollectionEntry, error) {
	return r.collectionDAO.GetEntry(ctx, userID, characterValue)
}

func (r *playerRepositoryImpl) UpsertCollectionEntry(ctx context.Context, entry *model.CollectionEntry) error {
	return r.collectionDAO.Upsert(ctx, entry)
}

func (r *playerRepositoryImpl) ListCollection(ctx context.Context, userID string) ([]*model.CollectionEntry, error) {
	return r.collectionDAO.ListByUser(ctx, userID)
}
