package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wisefido-motion/internal/models"

	"go.uber.org/zap"
)

// ProfileRepository 用户画像仓库（motion_user_profiles）
type ProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProfileRepository 创建画像仓库
func NewProfileRepository(db *sql.DB, logger *zap.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetProfile 查询画像；不存在时返回 unknown 角色，不视为错误
func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, fmt.Errorf("user_id is required")
	}

	query := `SELECT role FROM motion_user_profiles WHERE user_id = $1`

	var role string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Debug("Profile not found", zap.String("user_id", userID))
		return models.UserProfile{UserID: userID, Role: models.RoleUnknown}, nil
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return models.UserProfile{UserID: userID, Role: models.ParseRole(role)}, nil
}

// UpsertProfile 写入或更新画像
func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile models.UserProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	query := `
		INSERT INTO motion_user_profiles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role
	`
	if _, err := r.db.ExecContext(ctx, query, profile.UserID, string(profile.Role)); err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
