package redis

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// ErrNil key 不存在
var ErrNil = redis.Nil

// Client Redis 客户端（隐藏 go-redis 类型）
type Client struct {
	rdb *redis.Client
	cfg *Config
}

// NewClient 创建 Redis 客户端
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &Client{rdb: rdb, cfg: cfg}, nil
}

// key 拼接统一前缀
func (c *Client) key(k string) string {
	if c.cfg.KeyPrefix == "" {
		return k
	}
	return c.cfg.KeyPrefix + k
}

// Get 获取字符串值；key 不存在时返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNil
		}
		return "", errors.Wrap(err, "redis get failed")
	}
	return val, nil
}

// Set 设置字符串值
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set failed")
	}
	return nil
}

// Del 删除 key
func (c *Client) Del(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Wrap(err, "redis del failed")
	}
	return nil
}

// SAdd 向集合添加成员
func (c *Client) SAdd(ctx context.Context, key string, members ...interface{}) error {
	if err := c.rdb.SAdd(ctx, c.key(key), members...).Err(); err != nil {
		return errors.Wrap(err, "redis sadd failed")
	}
	return nil
}

// SMembers 获取集合所有成员
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, c.key(key)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis smembers failed")
	}
	return members, nil
}

// Expire 设置过期时间
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := c.rdb.Expire(ctx, c.key(key), ttl).Err(); err != nil {
		return errors.Wrap(err, "redis expire failed")
	}
	return nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.rdb.Close()
}
