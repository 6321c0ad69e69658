package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore 把数据块保存在 SQLite 的键值表中
type SQLiteStore struct {
	conn   *sql.DB
	key    string
	logger *zap.Logger
}

func NewSQLite(dbPath, key string, logger *zap.Logger) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &SQLiteStore{conn: conn, key: key, logger: logger}

	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("Database initialized", zap.String("path", dbPath))
	return db, nil
}

// initSchema 初始化数据库表
func (db *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (db *SQLiteStore) Close() error {
	return db.conn.Close()
}

// LoadRaw 读取数据块，不存在时返回 (nil, nil)
func (db *SQLiteStore) LoadRaw(ctx context.Context) ([]byte, error) {
	var value []byte
	err := db.conn.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, db.key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %q: %w", db.key, err)
	}
	return value, nil
}

// SaveRaw 写入数据块，每次写入版本号加一
// 注意：使用命名返回值 (err error)，让 defer 能访问到错误
func (db *SQLiteStore) SaveRaw(ctx context.Context, data []byte) (err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error("Rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
			}
		}
	}()

	var version int
	err = tx.QueryRowContext(ctx, `SELECT version FROM blobs WHERE key = ?`, db.key).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		version = 0
		err = nil
	case err != nil:
		return fmt.Errorf("failed to read blob version: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blobs (key, value, version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			version = excluded.version,
			updated_at = excluded.updated_at
	`, db.key, data, version+1, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save blob %q: %w", db.key, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Version 返回数据块被保存的次数，从未保存过时为 0
func (db *SQLiteStore) Version(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT version FROM blobs WHERE key = ?`, db.key).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read blob version: %w", err)
	}
	return version, nil
}
