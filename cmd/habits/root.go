package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habit-tracker/config"
	"habit-tracker/database"
	"habit-tracker/date"
	"habit-tracker/logging"
	"habit-tracker/store"
)

// app 一次命令调用共享的状态
type app struct {
	configPath string
	verbose    bool
	now        func() time.Time

	cfg    *config.Config
	logger *zap.Logger
	blobs  database.BlobStore
	store  *store.Store
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "habits",
		Short: "Track daily habits and streaks",
		Long: `habits keeps a list of daily habits, records which days each one was done,
and shows the current streak of consecutive days for every habit.

Data is loaded from the configured storage on every invocation and written back
after add, done and delete.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			// 命令行输出保持干净，只有 --verbose 时才打印调试日志
			cfg.Log.Level = "warn"
			if a.verbose {
				cfg.Log.Level = "debug"
				cfg.Log.Development = true
			}

			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDoneCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newCalendarCmd(a),
		newDayCmd(a),
	)
	return root
}

// open 打开存储并加载习惯集合
func (a *app) open(ctx context.Context) error {
	if a.store != nil {
		return nil
	}

	blobs, err := database.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.blobs = blobs

	a.store = store.New(store.WithClock(a.now), store.WithLogger(a.logger))
	a.store.LoadFrom(ctx, blobs)
	return nil
}

func (a *app) save(ctx context.Context) error {
	return a.store.SaveTo(ctx, a.blobs)
}

func (a *app) close() error {
	var err error
	if a.blobs != nil {
		err = a.blobs.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

var errInvalidIndex = errors.New("invalid habit index")

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidIndex, s)
	}
	return i, nil
}

// dateFlag 解析 --date，空值表示今天
func (a *app) dateFlag(s string) (date.Key, error) {
	if s == "" {
		return a.store.Today(), nil
	}
	return date.Parse(s)
}
