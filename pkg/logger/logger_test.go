package logger

import (
	"path/filepath"
	"testing"
)

// TestNewDefault 测试默认配置创建
func TestNewDefault(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("test message", "key", "value")
	l.Named("sub").Debug("debug message")
	l.WithFields("user_id", "42").Warn("warn message")
}

// TestNewFileOutput 测试文件输出
func TestNewFileOutput(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Level:      DebugLevel,
		Format:     JSONFormat,
		EnableFile: true,
		OutputPath: filepath.Join(dir, "test.log"),
	}

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("file message", "n", 1)
	_ = l.Sync()
}

// TestConfigValidate 测试配置验证
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"valid default", DefaultConfig(), false},
		{"invalid level", &Config{Level: "verbose", EnableConsole: true}, true},
		{"invalid format", &Config{Format: "xml", EnableConsole: true}, true},
		{"file without path", &Config{EnableFile: true}, true},
		{"no output", &Config{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
