package dao

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// WalletDAO 钱包数据访问对象
//
// 表结构: users (id TEXT PRIMARY KEY, balance BIGINT NOT NULL DEFAULT 0, updated_at TIMESTAMPTZ)
type WalletDAO struct {
	db      *postgres.Client
	logger  logger.Logger
	metrics *metrics.GachaMetrics
}

// NewWalletDAO 创建钱包 DAO
func NewWalletDAO(db *postgres.Client, l logger.Logger, m *metrics.GachaMetrics) *WalletDAO {
	return &WalletDAO{
		db:      db,
		logger:  l.Named("dao.wallet"),
		metrics: m,
	}
}

// GetBalance 查询玩家余额，无记录时返回 0 (玩家从零开始)
func (d *WalletDAO) GetBalance(ctx context.Context, userID string) (int64, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("wallet_select", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Select("balance").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build query")
	}

	var balance int64
	if err := d.db.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		if err == postgres.ErrNoRows {
			return 0, nil
		}
		return 0, errors.Wrap(err, "failed to get balance")
	}

	return balance, nil
}

// Debit 扣除余额，返回扣除后的余额
// 带余额充足性条件，条件不满足时不产生任何变更
func (d *WalletDAO) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("wallet_debit", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Update("users").
		Set("balance", squirrel.Expr("balance - ?", amount)).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		Where(squirrel.Expr("balance >= ?", amount)).
		Suffix("RETURNING balance").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build query")
	}

	var balance int64
	if err := d.db.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		if err == postgres.ErrNoRows {
			return 0, errors.Newf("debit rejected for user %s: insufficient balance", userID)
		}
		return 0, errors.Wrap(err, "failed to debit balance")
	}

	return balance, nil
}

// Credit 增加余额 (Upsert)，返回增加后的余额
func (d *WalletDAO) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	start := time.Now()
	defer func() {
		d.metrics.RecordDBQuery("wallet_credit", true, time.Since(start).Seconds())
	}()

	query, args, err := postgres.QueryBuilder.
		Insert("users").
		Columns("id", "balance", "updated_at").
		Values(userID, amount, time.Now()).
		Suffix("ON CONFLICT (id) DO UPDATE SET balance = users.balance + EXCLUDED.balance, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING balance").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build query")
	}

	var balance int64
	if err := d.db.QueryRow(ctx, query, args...).Scan(&balance); err != nil {
		return 0, errors.Wrap(err, "failed to credit balance")
	}

	return balance, nil
}
