package service

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
)

// ArticleService manages articles
type ArticleService struct {
	*ContentService[domain.Article, *domain.Article]
}

// NewArticleService creates a new ArticleService
func NewArticleService(
	repo repository.ContentRepository[domain.Article, *domain.Article],
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
) *ArticleService {
	return &ArticleService{ContentService: NewContentService(repo, versions, enqueuer, cacheService)}
}

// CreateArticle creates an article; only staff can feature it
func (s *ArticleService) CreateArticle(ctx context.Context, actor *Actor, req *domain.CreateArticleRequest) (*domain.Article, error) {
	return s.Create(ctx, actor, &req.ContentRequest, func(a *domain.Article) {
		a.Featured = req.Featured && actor.IsStaff()
		a.FeaturedImage = req.FeaturedImage
	})
}

// UpdateArticle updates an article
func (s *ArticleService) UpdateArticle(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateArticleRequest) (*domain.Article, error) {
	return s.Update(ctx, actor, id, &req.UpdateContentRequest, func(a *domain.Article) {
		if req.Featured != nil && actor.IsStaff() {
			a.Featured = *req.Featured
		}
		if req.FeaturedImage != nil {
			a.FeaturedImage = *req.FeaturedImage
		}
	})
}

// Featured returns the newest published featured articles
func (s *ArticleService) Featured(ctx context.Context, limit int) ([]*domain.Article, error) {
	featured := true
	items, _, err := s.List(ctx, nil, domain.ContentFilter{
		Featured: &featured,
		Page:     1,
		Limit:    limit,
		Sort:     "newest",
	})
	return items, err
}
