package repository

import (
	"context"
	"fmt"

	"github.com/lk2023060901/gambatt/app/gacha/internal/dao"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// CatalogRepository 图鉴目录端口 (只读；内容管理由外部负责)
type CatalogRepository interface {
	// ListByRarity 返回指定稀有度的全部角色标识
	ListByRarity(ctx context.Context, rarity model.Rarity) ([]string, error)
	// GetFeaturedSet 返回当前卡池的 featured 角色标识
	GetFeaturedSet(ctx context.Context) ([]string, error)
	// GetCharacter 返回单个角色
	GetCharacter(ctx context.Context, value string) (*model.Character, error)
	// Invalidate 清空缓存，下次读取回源数据库
	Invalidate(ctx context.Context) error
}

// catalogRepositoryImpl 图鉴目录实现
// 读路径: redis 缓存 → singleflight 合并回源 → 数据库
type catalogRepositoryImpl struct {
	characterDAO *dao.CharacterDAO
	cacheDAO     *dao.CacheDAO
	logger       logger.Logger
	group        singleflight.Group
}

// NewCatalogRepository 创建图鉴目录仓储
func NewCatalogRepository(
	characterDAO *dao.CharacterDAO,
	cacheDAO *dao.CacheDAO,
	l logger.Logger,
) CatalogRepository {
	return &catalogRepositoryImpl{
		characterDAO: characterDAO,
		cacheDAO:     cacheDAO,
		logger:       l.Named("repository.catalog"),
	}
}

func (r *catalogRepositoryImpl) ListByRarity(ctx context.Context, rarity model.Rarity) ([]string, error) {
	// 1. 缓存读取 (缓存故障只记日志，回源数据库)
	values, err := r.cacheDAO.GetCharacterList(ctx, rarity)
	if err != nil {
		r.logger.Warn("failed to read character list cache", "rarity", rarity, "error", err)
	}
	if values != nil {
		return values, nil
	}

	// 2. singleflight 合并并发回源
	result, err, _ := r.group.Do(fmt.Sprintf("rarity:%s", rarity), func() (interface{}, error) {
		values, err := r.characterDAO.ListByRarity(ctx, rarity)
		if err != nil {
			return nil, err
		}

		if err := r.cacheDAO.SetCharacterList(ctx, rarity, values); err != nil {
			r.logger.Warn("failed to cache character list", "rarity", rarity, "error", err)
		}
		return values, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]string), nil
}

func (r *catalogRepositoryImpl) GetFeaturedSet(ctx context.Context) ([]string, error) {
	banner, err := r.cacheDAO.GetBanner(ctx)
	if err != nil {
		r.logger.Warn("failed to read banner cache", "error", err)
	}
	if banner != nil {
		return banner.CurrentCharacters, nil
	}

	result, err, _ := r.group.Do("banner", func() (interface{}, error) {
		banner, err := r.characterDAO.GetBanner(ctx)
		if err != nil {
			return nil, err
		}

		if err := r.cacheDAO.SetBanner(ctx, banner); err != nil {
			r.logger.Warn("failed to cache banner", "error", err)
		}
		return banner, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.Banner).CurrentCharacters, nil
}

func (r *catalogRepositoryImpl) GetCharacter(ctx context.Context, value string) (*model.Character, error) {
	return r.characterDAO.Get(ctx, value)
}

func (r *catalogRepositoryImpl) Invalidate(ctx context.Context) error {
	return r.cacheDAO.InvalidateCatalog(ctx)
}
