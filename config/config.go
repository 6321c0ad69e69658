package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// StorageConfig 持久化配置
type StorageConfig struct {
	Driver  string        `yaml:"driver" env:"HABITS_STORAGE_DRIVER"` // sqlite, redis, file, memory
	Path    string        `yaml:"path" env:"HABITS_STORAGE_PATH"`     // sqlite 数据库或 JSON 文件路径
	Key     string        `yaml:"key" env:"HABITS_STORAGE_KEY"`       // 数据块的键名
	Timeout time.Duration `yaml:"timeout" env:"HABITS_STORAGE_TIMEOUT"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"HABITS_REDIS_ADDR"`
	Password string `yaml:"password" env:"HABITS_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"HABITS_REDIS_DB"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"HABITS_SERVER_ADDR"`
}

type LogConfig struct {
	Level       string `yaml:"level" env:"HABITS_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"HABITS_LOG_DEVELOPMENT"`
}

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:  "sqlite",
			Path:    "./habits.db",
			Key:     "habits",
			Timeout: 3 * time.Second,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Server: ServerConfig{
			Addr: ":7789",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 读取 YAML 配置文件，再用环境变量覆盖。
// path 为空或文件不存在时使用默认配置。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// 没有配置文件时使用默认值
		case err != nil:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
			}
		}
	}

	// 环境变量覆盖
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite", "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case "redis":
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for driver \"redis\"")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.Key == "" {
		return errors.New("storage.key is required")
	}
	if c.Storage.Timeout <= 0 {
		return errors.New("storage.timeout must be positive")
	}
	return nil
}
