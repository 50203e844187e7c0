package config

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Name  string `mapstructure:"name"`
	Count int    `mapstructure:"count"`
	Sub   struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"sub"`
}

func writeTestFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestLoaderUnmarshal 测试配置加载与解析
func TestLoaderUnmarshal(t *testing.T) {
	path := writeTestFile(t, "name: gambatt\ncount: 3\nsub:\n  enabled: true\n")

	loader := NewLoader()
	if err := loader.LoadFile(path, "yaml"); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	var cfg testConfig
	if err := loader.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Name != "gambatt" || cfg.Count != 3 || !cfg.Sub.Enabled {
		t.Errorf("Unmarshal() got = %+v", cfg)
	}
}

// TestLoaderMissingFile 测试加载不存在的文件
func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader()
	if err := loader.LoadFile("/nonexistent/config.yaml", "yaml"); err == nil {
		t.Error("LoadFile() expected error for missing file")
	}
}

// TestWatcherInitialLoad 测试监听器初始加载
func TestWatcherInitialLoad(t *testing.T) {
	path := writeTestFile(t, "name: initial\ncount: 1\n")

	w, err := NewWatcher[testConfig](path, "yaml")
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	if got := w.GetConfig(); got.Name != "initial" {
		t.Errorf("GetConfig().Name = %s, want initial", got.Name)
	}
}

// TestWatcherValidator 测试校验失败时拒绝加载
func TestWatcherValidator(t *testing.T) {
	path := writeTestFile(t, "name: bad\ncount: -1\n")

	_, err := NewWatcher[testConfig](path, "yaml", WithValidator[testConfig](func(c *testConfig) error {
		if c.Count < 0 {
			return os.ErrInvalid
		}
		return nil
	}))
	if err == nil {
		t.Error("NewWatcher() expected validation error")
	}
}
