package logger

import "github.com/cockroachdb/errors"

// Level 日志等级
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format 日志格式
type Format string

const (
	JSONFormat    Format = "json"
	ConsoleFormat Format = "console"
)

// Config 日志配置
type Config struct {
	Level  Level  `mapstructure:"level"`  // 日志等级
	Format Format `mapstructure:"format"` // 输出格式 (json/console)

	EnableConsole bool   `mapstructure:"enable_console"` // 启用控制台输出
	EnableFile    bool   `mapstructure:"enable_file"`    // 启用文件输出
	OutputPath    string `mapstructure:"output_path"`    // 日志文件路径

	TimeFormat string `mapstructure:"time_format"` // 时间格式

	Rotation RotationConfig `mapstructure:"rotation"`

	Development bool `mapstructure:"development"` // 开发模式 (彩色输出)
}

// RotationConfig 按大小轮换配置 (lumberjack)
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`    // 单文件最大大小 (MB)
	MaxBackups int  `mapstructure:"max_backups"` // 保留的旧文件数量
	MaxAge     int  `mapstructure:"max_age"`     // 保留天数
	Compress   bool `mapstructure:"compress"`    // 是否压缩旧文件
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Level:         InfoLevel,
		Format:        ConsoleFormat,
		EnableConsole: true,
		EnableFile:    false,
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     7,
		},
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	switch c.Level {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel, "":
	default:
		return errors.Newf("invalid log level: %s", c.Level)
	}

	switch c.Format {
	case JSONFormat, ConsoleFormat, "":
	default:
		return errors.Newf("invalid log format: %s", c.Format)
	}

	if c.EnableFile && c.OutputPath == "" {
		return errors.New("output_path is required when enable_file is true")
	}

	if !c.EnableConsole && !c.EnableFile {
		return errors.New("at least one of enable_console or enable_file must be set")
	}

	return nil
}
