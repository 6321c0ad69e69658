package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"habit-tracker/api"
	"habit-tracker/config"
	"habit-tracker/database"
	"habit-tracker/handler"
	"habit-tracker/logging"
	"habit-tracker/metrics"
	"habit-tracker/store"
)

// @title Habit Tracker API
// @version 1.0
// @description 习惯打卡：习惯列表、每日完成、连续天数与月历。
// @host localhost:7789
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化存储
	blobs, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer blobs.Close()

	// 进程启动时加载一次，之后只在显式保存时写回
	s := store.New(store.WithLogger(logger))
	metrics.Observe(s)
	habits := s.LoadFrom(ctx, blobs)
	logger.Info("Habits loaded", zap.Int("count", len(habits)), zap.String("driver", cfg.Storage.Driver))

	h := handler.NewHandler(s, blobs, logger)
	mux := api.SetupRoutes(h, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅关闭
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Server forced to shutdown", zap.Error(err))
			return server.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	// 没有自动保存：未调用 /save 的修改随进程退出而丢弃
	logger.Info("Server stopped", zap.Int("habits", s.Len()))
	return nil
}
