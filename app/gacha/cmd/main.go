package main

import (
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/pkg/app"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/database/redis"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/lk2023060901/gambatt/pkg/web"
)

// GameConfigConfig 玩法配置表加载配置
type GameConfigConfig struct {
	// Path 配置表文件路径，为空时使用内置默认表
	Path string `mapstructure:"path"`
}

// Config 定义 Gacha 服务的完整配置结构
type Config struct {
	Log logger.Config `mapstructure:"log"`

	// 玩法配置表
	GameConfig GameConfigConfig `mapstructure:"gameconfig"`

	// Database 配置
	Database postgres.Config `mapstructure:"database"`

	// Redis 配置
	Redis redis.Config `mapstructure:"redis"`

	// HTTP 服务配置
	Web web.Config `mapstructure:"web"`

	// 指标配置
	Metrics metrics.Config `mapstructure:"metrics"`
}

func main() {
	var cfg Config

	// 1. 加载配置
	if err := app.LoadConfig(&cfg); err != nil {
		panic(err)
	}

	// 2. 初始化主日志
	l, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}

	// 3. 初始化应用
	application, cleanup, err := InitApp(&cfg, l)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		return
	}
	defer cleanup()

	// 4. 运行服务
	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
	}
}
