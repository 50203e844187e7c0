package gameconfig

import (
	"github.com/lk2023060901/gambatt/pkg/config"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// Provider 配置表提供者
// 服务层通过此接口获取当前配置表，便于测试替换与热更新
type Provider interface {
	Tables() *Tables
}

// 确保实现
var (
	_ Provider = (*StaticProvider)(nil)
	_ Provider = (*Manager)(nil)
)

// StaticProvider 固定配置表提供者 (测试和默认配置用)
type StaticProvider struct {
	tables *Tables
}

// NewStaticProvider 创建固定配置表提供者
func NewStaticProvider(tables *Tables) *StaticProvider {
	if tables == nil {
		tables = DefaultTables()
	}
	return &StaticProvider{tables: tables}
}

// Tables 返回配置表
func (p *StaticProvider) Tables() *Tables {
	return p.tables
}

// Manager 文件配置表管理器，支持热更新
type Manager struct {
	logger  logger.Logger
	watcher *config.Watcher[Tables]
}

// NewManager 从文件加载配置表并监听变更
func NewManager(path string, l logger.Logger) (*Manager, error) {
	watcher, err := config.NewWatcher[Tables](path, "yaml",
		config.WithValidator[Tables](func(t *Tables) error {
			return t.Validate()
		}),
	)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		logger:  l.Named("gameconfig"),
		watcher: watcher,
	}

	watcher.OnChange(func(t *Tables) {
		m.logger.Info("game tables reloaded",
			"roll_cost", t.RollCost,
			"rarities", len(t.Weights),
		)
	})

	m.logger.Info("game tables loaded",
		"path", path,
		"roll_cost", watcher.GetConfig().RollCost,
		"rarities", len(watcher.GetConfig().Weights),
	)

	return m, nil
}

// Tables 返回当前配置表 (线程安全)
func (m *Manager) Tables() *Tables {
	return m.watcher.GetConfig()
}

// OnReload 注册配置表变更回调 (如缓存失效)
func (m *Manager) OnReload(callback func(*Tables)) {
	m.watcher.OnChange(callback)
}
