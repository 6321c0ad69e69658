// Package database 提供习惯数据块的持久化实现：SQLite、Redis、JSON 文件和内存。
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"habit-tracker/config"
	"habit-tracker/metrics"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// BlobStore 键值数据块存储；数据不存在时 LoadRaw 返回 (nil, nil)
type BlobStore interface {
	LoadRaw(ctx context.Context) ([]byte, error)
	SaveRaw(ctx context.Context, data []byte) error
	Close() error
}

// Open 按配置打开存储，返回的存储带超时控制和延迟指标
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (BlobStore, error) {
	var (
		inner BlobStore
		err   error
	)

	switch cfg.Storage.Driver {
	case "sqlite":
		inner, err = NewSQLite(cfg.Storage.Path, cfg.Storage.Key, logger)
	case "redis":
		inner, err = NewRedis(ctx, cfg.Redis, cfg.Storage.Key)
	case "file":
		inner = NewFile(cfg.Storage.Path)
	case "memory":
		inner = NewMemory()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	return &instrumented{
		inner:   inner,
		driver:  cfg.Storage.Driver,
		timeout: cfg.Storage.Timeout,
		logger:  logger,
	}, nil
}

type instrumented struct {
	inner   BlobStore
	driver  string
	timeout time.Duration
	logger  *zap.Logger
}

func (s *instrumented) LoadRaw(ctx context.Context) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	data, err := s.inner.LoadRaw(ctx)
	metrics.RecordStorageDuration(s.driver, "load", err, time.Since(start))

	if err != nil {
		s.logger.Error("Failed to load blob", zap.String("driver", s.driver), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (s *instrumented) SaveRaw(ctx context.Context, data []byte) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err := s.inner.SaveRaw(ctx, data)
	metrics.RecordStorageDuration(s.driver, "save", err, time.Since(start))

	if err != nil {
		s.logger.Error("Failed to save blob", zap.String("driver", s.driver), zap.Error(err))
	}
	return err
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}

func (s *instrumented) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
