// pkg/config/watcher.go
package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher 配置监听器（用于热更新）
type Watcher[T any] struct {
	loader     *Loader
	configPath string
	configType string
	validate   func(*T) error
	callbacks  []func(*T)
	mu         sync.RWMutex
	config     *T
}

// WatcherOption 监听器选项
type WatcherOption[T any] func(*Watcher[T])

// WithValidator 设置配置校验函数；校验失败的新配置会被丢弃
func WithValidator[T any](validate func(*T) error) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.validate = validate
	}
}

// NewWatcher 创建配置监听器
// configPath: 配置文件路径
// configType: 配置类型 "yaml" 或 "json"
func NewWatcher[T any](configPath string, configType string, opts ...WatcherOption[T]) (*Watcher[T], error) {
	loader := NewLoader()

	if err := loader.LoadFile(configPath, configType); err != nil {
		return nil, err
	}

	var cfg T
	if err := loader.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	watcher := &Watcher[T]{
		loader:     loader,
		configPath: configPath,
		configType: configType,
		callbacks:  make([]func(*T), 0),
		config:     &cfg,
	}

	for _, opt := range opts {
		opt(watcher)
	}

	if watcher.validate != nil {
		if err := watcher.validate(&cfg); err != nil {
			return nil, err
		}
	}

	watcher.watch()

	return watcher, nil
}

// GetConfig 获取当前配置（线程安全）
func (w *Watcher[T]) GetConfig() *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange 注册配置变化回调
func (w *Watcher[T]) OnChange(callback func(*T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// watch 监听配置文件变化
func (w *Watcher[T]) watch() {
	w.loader.viper.WatchConfig()
	w.loader.viper.OnConfigChange(func(e fsnotify.Event) {
		// 重新加载，失败时保留旧配置
		newLoader := NewLoader()
		if err := newLoader.LoadFile(w.configPath, w.configType); err != nil {
			return
		}

		var newCfg T
		if err := newLoader.Unmarshal(&newCfg); err != nil {
			return
		}

		if w.validate != nil {
			if err := w.validate(&newCfg); err != nil {
				return
			}
		}

		w.mu.Lock()
		w.config = &newCfg
		callbacks := make([]func(*T), len(w.callbacks))
		copy(callbacks, w.callbacks)
		w.mu.Unlock()

		for _, cb := range callbacks {
			cb(&newCfg)
		}
	})
}
