package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"habit-tracker/model"
)

// BlobLoader 读取持久化数据；数据不存在时返回 (nil, nil)
type BlobLoader interface {
	LoadRaw(ctx context.Context) ([]byte, error)
}

// BlobSaver 写入持久化数据
type BlobSaver interface {
	SaveRaw(ctx context.Context, data []byte) error
}

// LoadFrom 从存储加载集合。读取失败时记录日志并使用空集合。
func (s *Store) LoadFrom(ctx context.Context, src BlobLoader) []*model.Habit {
	raw, err := src.LoadRaw(ctx)
	if err != nil {
		s.logger.Warn("Failed to load habits, starting with an empty collection", zap.Error(err))
		raw = nil
	}
	return s.Load(raw)
}

// SaveTo 将当前集合写入存储
func (s *Store) SaveTo(ctx context.Context, dst BlobSaver) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	if err := dst.SaveRaw(ctx, data); err != nil {
		return fmt.Errorf("failed to save habits: %w", err)
	}

	s.logger.Info("Habits saved", zap.Int("count", len(s.habits)), zap.Int("bytes", len(data)))
	return nil
}
