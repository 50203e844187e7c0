package main

import (
	"context"

	"github.com/lk2023060901/gambatt/app/gacha/internal/dao"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/handler"
	"github.com/lk2023060901/gambatt/app/gacha/internal/manager"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/repository"
	"github.com/lk2023060901/gambatt/app/gacha/internal/server"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/app"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/database/redis"
	"github.com/lk2023060901/gambatt/pkg/logger"
	webmetrics "github.com/lk2023060901/gambatt/pkg/web/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// closerFunc 适配无 error 返回的 Close
type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// InitApp 按依赖顺序组装应用
func InitApp(cfg *Config, l logger.Logger) (*app.BaseApp, func(), error) {
	// 1. 指标
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	webmetrics.InitMetrics(registry)

	m := metrics.New(&cfg.Metrics)
	if err := m.Register(registry); err != nil {
		return nil, nil, err
	}

	// 2. 存储
	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	// 3. 玩法配置表
	var tables gameconfig.Provider
	cacheDAO := dao.NewCacheDAO(rdb, l, m)
	if cfg.GameConfig.Path != "" {
		mgr, err := gameconfig.NewManager(cfg.GameConfig.Path, l)
		if err != nil {
			rdb.Close()
			db.Close()
			return nil, nil, err
		}
		// 配置表热更新后图鉴缓存立即失效
		mgr.OnReload(func(*gameconfig.Tables) {
			if err := cacheDAO.InvalidateCatalog(context.Background()); err != nil {
				l.Warn("failed to invalidate catalog cache on reload", "error", err)
			}
		})
		tables = mgr
	} else {
		l.Info("gameconfig path not set, using built-in tables")
		tables = gameconfig.NewStaticProvider(nil)
	}

	// 4. DAO 与仓储
	walletDAO := dao.NewWalletDAO(db, l, m)
	collectionDAO := dao.NewCollectionDAO(db, l, m)
	characterDAO := dao.NewCharacterDAO(db, l, m)

	players := repository.NewPlayerRepository(walletDAO, collectionDAO, l)
	catalog := repository.NewCatalogRepository(characterDAO, cacheDAO, l)

	// 5. 会话与锁
	locks := manager.NewRollLockManager(l)
	sessions := manager.NewPaginationManager(
		tables.Tables().SessionTTL,
		func(handle string, final *model.FinalSummary) {
			l.Info("roll session timed out",
				"handle", handle,
				"user_id", final.UserID,
				"highest", final.HighestRarity)
		},
		l, m,
	)

	// 6. 服务
	rarity := service.NewRarityService(l, service.WithSelectStrategy(service.FeaturedBoostSelect))
	collection := service.NewCollectionService(tables, players, l)
	wallet := service.NewWalletService(players, l)
	roll := service.NewRollService(tables, rarity, collection, wallet, catalog, locks, sessions, m, l)

	// 7. 处理器与服务器
	httpSrv := server.NewHTTPServer(
		&cfg.Web, l, registry, db, rdb,
		handler.NewRollHandler(l, roll),
		handler.NewPageHandler(l, roll),
		handler.NewCollectionHandler(l, collection, wallet),
		handler.NewAdminHandler(l, wallet, collection, catalog),
	)

	cronSrv, err := server.NewCronServer(sessions, l)
	if err != nil {
		rdb.Close()
		db.Close()
		return nil, nil, err
	}

	// 8. 组装应用
	application := app.NewBaseApp(
		app.WithName("gacha"),
		app.WithLogger(l),
	)
	application.AppendServer(httpSrv, cronSrv)
	application.AppendCloser(closerFunc(sessions.Close), rdb, closerFunc(db.Close))

	cleanup := func() {
		_ = application.Shutdown()
	}
	return application, cleanup, nil
}
