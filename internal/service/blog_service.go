package service

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	"github.com/mediaportal/portal-backend/pkg/markdown"
)

// BlogService manages blog posts
type BlogService struct {
	*ContentService[domain.BlogPost, *domain.BlogPost]
}

// NewBlogService creates a new BlogService
func NewBlogService(
	repo repository.ContentRepository[domain.BlogPost, *domain.BlogPost],
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
) *BlogService {
	return &BlogService{ContentService: NewContentService(repo, versions, enqueuer, cacheService)}
}

// CreatePost creates a blog post with its reading time
func (s *BlogService) CreatePost(ctx context.Context, actor *Actor, req *domain.ContentRequest) (*domain.BlogPost, error) {
	return s.Create(ctx, actor, req, setReadingTime)
}

// UpdatePost updates a blog post; reading time follows the content
func (s *BlogService) UpdatePost(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateContentRequest) (*domain.BlogPost, error) {
	return s.Update(ctx, actor, id, req, setReadingTime)
}

func setReadingTime(p *domain.BlogPost) {
	p.ReadingTime = markdown.ReadingTime(p.Content)
}
