// pkg/logger/rotation.go
package logger

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// newRotationWriter 创建按大小轮换的日志写入器
func newRotationWriter(cfg *RotationConfig, outputPath string) io.Writer {
	return &lumberjack.Logger{
		Filename:   outputPath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}
