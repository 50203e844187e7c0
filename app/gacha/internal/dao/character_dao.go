package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// bannerDataKey data 表中卡池配置的 key
const bannerDataKey = "banner"

// CharacterDAO 图鉴角色数据访问对象 (只读，内容管理由外部负责)
//
// 表结构:
//   - characters (value TEXT PRIMARY KEY, label TEXT, series TEXT, rarity TEXT, image TEXT, edition TEXT)
//   - data (key TEXT PRIMARY KEY, value TEXT) -- banner 以 JSON 存于 key='banner'
type CharacterDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewCharacterDAO 创建角色 DAO
func NewCharacterDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *CharacterDAO {
	return &CharacterDAO{
		db:      db,
		logger:  l.Named("dao.character"),
		metrics: m,
	}
}

// ListByRarity 查询指定稀有度的全部角色标识
func (d *CharacterDAO) ListByRarity(ctx context.Context, rarity model.Rarity) ([]string, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("character_list", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("value").
		From("characters").
		Where(squirrel.Eq{"rarity": string(rarity)}).
		OrderBy("value").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, errors.Wrap(err, "failed to scan character value")
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate characters")
	}

	return values, nil
}

// Get 查询单个角色
func (d *CharacterDAO) Get(ctx context.Context, value string) (*model.Character, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("character_select", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("label", "series", "rarity", "image", "edition").
		From("characters").
		Where(squirrel.Eq{"value": value}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	character := &model.Character{Value: value}
	var rarity string
	err = d.db.QueryRow(ctx, query, args...).Scan(
		&character.Label, &character.Series, &rarity, &character.Image, &character.Edition)
	if err != nil {
		if err == postgres.ErrNoRows {
			return nil, errors.Newf("character %q does not exist", value)
		}
		return nil, errors.Wrap(err, "failed to get character")
	}
	character.Rarity = model.Rarity(rarity)

	return character, nil
}

// GetBanner 查询当前卡池，未配置时返回空卡池
func (d *CharacterDAO) GetBanner(ctx context.Context) (*model.Banner, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("banner_select", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("value").
		From("data").
		Where(squirrel.Eq{"key": bannerDataKey}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	var raw []byte
	if err := d.db.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if err == postgres.ErrNoRows {
			return &model.Banner{}, nil
		}
		return nil, errors.Wrap(err, "failed to get banner")
	}

	var banner model.Banner
	if err := json.Unmarshal(raw, &banner); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal banner")
	}

	return &banner, nil
}
