package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryBuilder SQL 查询构建器（基于 squirrel）
var QueryBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Client PostgreSQL 客户端
type Client struct {
	pool *pgxpool.Pool
	cfg  *Config
}

// New 创建 PostgreSQL 客户端
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Standalone.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	if cfg.Pool.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Pool.MaxConns
	}
	if cfg.Pool.MinConns > 0 {
		poolCfg.MinConns = cfg.Pool.MinConns
	}
	if cfg.Pool.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Pool.MaxConnLifetime
	}
	if cfg.Pool.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.Pool.MaxConnIdleTime
	}
	if cfg.Pool.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.Pool.HealthCheckPeriod
	}

	ctx := context.Background()
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	return &Client{pool: pool, cfg: cfg}, nil
}

// applyQueryTimeout 应用查询超时到 context
func (c *Client) applyQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.QueryTimeout)
	}
	return ctx, func() {}
}

// QueryRow 查询单行；Scan 返回 ErrNoRows 时已被映射
func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) Row {
	ctx, cancel := c.applyQueryTimeout(ctx)
	return &row{row: c.pool.QueryRow(ctx, sql, args...), cancel: cancel}
}

// Query 查询多行
func (c *Client) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	ctx, cancel := c.applyQueryTimeout(ctx)
	defer cancel()

	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// Exec 执行写操作（INSERT/UPDATE/DELETE），返回受影响的行数
func (c *Client) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, cancel := c.applyQueryTimeout(ctx)
	defer cancel()

	result, err := c.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	return result.RowsAffected(), nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close 关闭客户端
func (c *Client) Close() {
	c.pool.Close()
}

// Row 单行查询结果
type Row interface {
	Scan(dest ...any) error
}

type row struct {
	row    pgx.Row
	cancel context.CancelFunc
}

// Scan 扫描单行结果，pgx.ErrNoRows 映射为 ErrNoRows
func (r *row) Scan(dest ...any) error {
	defer r.cancel()

	if err := r.row.Scan(dest...); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNoRows
		}
		return err
	}
	return nil
}
