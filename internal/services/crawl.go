package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/tudorhoriadaniel/seo-crawler/internal/model"
	"github.com/tudorhoriadaniel/seo-crawler/internal/store"
)

// CrawlService encapsulates crawl enqueueing so HTTP handlers do not
// depend directly on the store implementation. Crawls are picked up
// asynchronously by the worker runner.
type CrawlService interface {
	Enqueue(ctx context.Context, projectID uuid.UUID) (model.Crawl, error)
}

type crawlService struct {
	st *store.Store
}

func NewCrawlService(st *store.Store) CrawlService {
	return &crawlService{st: st}
}

func (s *crawlService) Enqueue(ctx context.Context, projectID uuid.UUID) (model.Crawl, error) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return s.st.CreateCrawl(ctx, id, projectID)
}
