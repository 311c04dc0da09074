package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Document 输出文档（collection + JSON 负载）
type Document struct {
	ID         int64           `json:"id"`
	Collection string          `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DocumentRepository 输出文档仓库（只写为主，查询用于看板和排查），表结构见 EnsureSchema
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository 创建文档仓库
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Insert 写入一条文档，created_at 由数据库生成
func (r *DocumentRepository) Insert(ctx context.Context, collection string, payload map[string]interface{}) (int64, error) {
	if collection == "" {
		return 0, fmt.Errorf("collection is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO motion_documents (collection, payload, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, collection, body).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	r.logger.Debug("Document inserted",
		zap.String("collection", collection),
		zap.Int64("id", id),
	)
	return id, nil
}

// ListRecent 按时间倒序读取某集合最近的文档
func (r *DocumentRepository) ListRecent(ctx context.Context, collection string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, collection, payload, created_at
		FROM motion_documents
		WHERE collection = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var payload []byte
		if err := rows.Scan(&d.ID, &d.Collection, &payload, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Payload = json.RawMessage(payload)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}
