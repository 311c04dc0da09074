package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wisefido-motion/internal/config"

	_ "github.com/lib/pq"
)

// schema 输出文档表和用户画像表
var schema = []string{
	`CREATE TABLE IF NOT EXISTS motion_documents (
		id          BIGSERIAL PRIMARY KEY,
		collection  TEXT NOT NULL,
		payload     JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_motion_documents_collection
		ON motion_documents (collection, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS motion_user_profiles (
		user_id  TEXT PRIMARY KEY,
		role     TEXT NOT NULL DEFAULT 'unknown'
	)`,
}

// NewPostgresDB 打开连接池并限时探测
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s/%s: %w", cfg.Host, cfg.Database, err)
	}
	return db, nil
}

// EnsureSchema 建表（幂等）
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
