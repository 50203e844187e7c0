package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lk2023060901/gambatt/pkg/config"
	"github.com/spf13/pflag"
)

var (
	configPath string
)

// LoadConfig 统一的服务配置加载入口
// 优先级：1. 命令行显式参数 > 2. 环境变量 > 3. 配置文件 > 4. 默认值
func LoadConfig(target any) error {
	// 1. 获取执行目录，用于计算默认值
	execDir, err := GetExecDir()
	if err != nil {
		return fmt.Errorf("failed to get executable directory: %w", err)
	}
	defaultConfig := filepath.Join(execDir, "config.yaml")

	// 2. 注册命令行参数
	if pflag.Lookup("config") == nil {
		pflag.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	// 3. 确定配置文件路径
	// 优先级：Flag 显式指定 > 环境变量 GAMBATT_CONFIG > 默认物理路径
	finalConfigPath := configPath
	if !pflag.CommandLine.Changed("config") {
		if envConfig := os.Getenv("GAMBATT_CONFIG"); envConfig != "" {
			finalConfigPath = envConfig
		}
	}

	if _, err := os.Stat(finalConfigPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s", finalConfigPath)
	}
	configPath = finalConfigPath

	// 4. 加载并解析
	loader := config.NewLoader()
	if err := loader.LoadFile(configPath, "yaml"); err != nil {
		return err
	}
	if err := loader.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// GetExecDir 获取可执行文件所在目录（处理符号链接）
func GetExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return filepath.Dir(execPath), nil
	}
	return filepath.Dir(realPath), nil
}

// GetConfigPath 返回最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}
