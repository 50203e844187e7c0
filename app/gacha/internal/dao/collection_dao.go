package dao

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// CollectionDAO 玩家图鉴数据访问对象
//
// 表结构: user_characters (user_id TEXT, character_value TEXT, level INT, xp_now INT,
// xp_max INT, updated_at TIMESTAMPTZ, PRIMARY KEY (user_id, character_value))
type CollectionDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewCollectionDAO 创建图鉴 DAO
func NewCollectionDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *CollectionDAO {
	return &CollectionDAO{
		db:      db,
		logger:  l.Named("dao.collection"),
		metrics: m,
	}
}

// GetEntry 查询单条收集记录，无记录时返回 nil
func (d *CollectionDAO) GetEntry(ctx context.Context, userID, characterValue string) (*model.CollectionEntry, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("collection_select", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("level", "xp_now", "xp_max", "updated_at").
		From("user_characters").
		Where(squirrel.Eq{"user_id": userID, "character_value": characterValue}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	entry := &model.CollectionEntry{
		UserID:         userID,
		CharacterValue: characterValue,
	}
	err = d.db.QueryRow(ctx, query, args...).Scan(&entry.Level, &entry.XPNow, &entry.XPMax, &entry.UpdatedAt)
	if err != nil {
		if err == postgres.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get collection entry")
	}

	return entry, nil
}

// Upsert 保存收集记录
func (d *CollectionDAO) Upsert(ctx context.Context, entry *model.CollectionEntry) error {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("collection_upsert", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Insert("user_characters").
		Columns("user_id", "character_value", "level", "xp_now", "xp_max", "updated_at").
		Values(entry.UserID, entry.CharacterValue, entry.Level, entry.XPNow, entry.XPMax, time.Now()).
		Suffix("ON CONFLICT (user_id, character_value) DO UPDATE SET " +
			"level = EXCLUDED.level, xp_now = EXCLUDED.xp_now, xp_max = EXCLUDED.xp_max, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if _, err := d.db.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to upsert collection entry")
	}

	return nil
}

// ListByUser 查询玩家的全部收集记录
func (d *CollectionDAO) ListByUser(ctx context.Context, userID string) ([]*model.CollectionEntry, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("collection_list", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("character_value", "level", "xp_now", "xp_max", "updated_at").
		From("user_characters").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("character_value").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}

	rows, err := d.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list collection")
	}
	defer rows.Close()

	var entries []*model.CollectionEntry
	for rows.Next() {
		entry := &model.CollectionEntry{UserID: userID}
		if err := rows.Scan(&entry.CharacterValue, &entry.Level, &entry.XPNow, &entry.XPMax, &entry.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan collection entry")
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate collection entries")
	}

	return entries, nil
}
