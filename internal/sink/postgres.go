package sink

import (
	"context"

	"wisefido-motion/internal/observability"
	"wisefido-motion/internal/repository"
)

// Postgres 写入 motion_documents
type Postgres struct {
	repo *repository.DocumentRepository
}

func NewPostgres(repo *repository.DocumentRepository) *Postgres {
	return &Postgres{repo: repo}
}

func (p *Postgres) Push(ctx context.Context, collection string, payload map[string]interface{}) error {
	if _, err := p.repo.Insert(ctx, collection, payload); err != nil {
		observability.IncSinkWrite("postgres", collection, observability.ResultError)
		return err
	}
	observability.IncSinkWrite("postgres", collection, observability.ResultSuccess)
	return nil
}
