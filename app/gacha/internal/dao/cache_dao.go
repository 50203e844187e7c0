package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/database/redis"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

const (
	// Redis key 前缀
	catalogRarityKeyPrefix = "cache:catalog:rarity:"
	catalogBannerKey       = "cache:catalog:banner"

	// TTL
	catalogCacheTTL = 5 * time.Minute
)

// CacheDAO 图鉴缓存数据访问对象
// 缓存按稀有度的角色列表与当前卡池，降低抽取路径上的数据库压力
type CacheDAO struct {
	redis   *redis.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewCacheDAO 创建缓存 DAO
func NewCacheDAO(rdb *redis.Client, l logger.Logger, m *metrics.GachaMetrics) *CacheDAO {
	return &CacheDAO{
		redis:   rdb,
		logger:  l.Named("dao.cache"),
		metrics: m,
	}
}

// GetCharacterList 从缓存获取稀有度角色列表，未命中时返回 nil
func (d *CacheDAO) GetCharacterList(ctx context.Context, rarity model.Rarity) ([]string, error) {
	key := fmt.Sprintf("%s%s", catalogRarityKeyPrefix, rarity)

	data, err := d.redis.Get(ctx, key)
	if err != nil {
		if err == redis.ErrNil {
			d.metrics.RecordCacheMiss("catalog")
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get character list from cache")
	}

	d.metrics.RecordCacheHit("catalog")

	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal character list")
	}

	return values, nil
}

// SetCharacterList 写入稀有度角色列表缓存
func (d *CacheDAO) SetCharacterList(ctx context.Context, rarity model.Rarity, values []string) error {
	key := fmt.Sprintf("%s%s", catalogRarityKeyPrefix, rarity)

	data, err := json.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "failed to marshal character list")
	}

	return d.redis.Set(ctx, key, data, catalogCacheTTL)
}

// GetBanner 从缓存获取卡池，未命中时返回 nil
func (d *CacheDAO) GetBanner(ctx context.Context) (*model.Banner, error) {
	data, err := d.redis.Get(ctx, catalogBannerKey)
	if err != nil {
		if err == redis.ErrNil {
			d.metrics.RecordCacheMiss("banner")
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get banner from cache")
	}

	d.metrics.RecordCacheHit("banner")

	var banner model.Banner
	if err := json.Unmarshal([]byte(data), &banner); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal banner")
	}

	return &banner, nil
}

// SetBanner 写入卡池缓存
func (d *CacheDAO) SetBanner(ctx context.Context, banner *model.Banner) error {
	data, err := json.Marshal(banner)
	if err != nil {
		return errors.Wrap(err, "failed to marshal banner")
	}

	return d.redis.Set(ctx, catalogBannerKey, data, catalogCacheTTL)
}

// InvalidateCatalog 清空图鉴相关缓存 (配置表热更新时调用)
func (d *CacheDAO) InvalidateCatalog(ctx context.Context) error {
	keys := make([]string, 0, len(model.AllRarities())+1)
	for _, rarity := range model.AllRarities() {
		keys = append(keys, fmt.Sprintf("%s%s", catalogRarityKeyPrefix, rarity))
	}
	keys = append(keys, catalogBannerKey)

	if err := d.redis.Del(ctx, keys...); err != nil {
		return errors.Wrap(err, "failed to invalidate catalog cache")
	}

	d.logger.Info("catalog cache invalidated")
	return nil
}
