package service

import (
	"context"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	"github.com/mediaportal/portal-backend/pkg/markdown"
)

// StoryService manages stories and their series
type StoryService struct {
	*ContentService[domain.Story, *domain.Story]
}

// NewStoryService creates a new StoryService
func NewStoryService(
	repo repository.ContentRepository[domain.Story, *domain.Story],
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
) *StoryService {
	return &StoryService{ContentService: NewContentService(repo, versions, enqueuer, cacheService)}
}

// CreateStory creates a story; word count is derived from the content
func (s *StoryService) CreateStory(ctx context.Context, actor *Actor, req *domain.CreateStoryRequest) (*domain.Story, error) {
	return s.Create(ctx, actor, &req.ContentRequest, func(st *domain.Story) {
		st.Genre = strings.TrimSpace(req.Genre)
		st.Series = strings.TrimSpace(req.Series)
		st.Chapter = req.Chapter
		st.WordCount = markdown.WordCount(st.Content)
	})
}

// UpdateStory updates a story
func (s *StoryService) UpdateStory(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateStoryRequest) (*domain.Story, error) {
	return s.Update(ctx, actor, id, &req.UpdateContentRequest, func(st *domain.Story) {
		if req.Genre != nil {
			st.Genre = strings.TrimSpace(*req.Genre)
		}
		if req.Series != nil {
			st.Series = strings.TrimSpace(*req.Series)
		}
		if req.Chapter != nil {
			st.Chapter = req.Chapter
		}
		st.WordCount = markdown.WordCount(st.Content)
	})
}

// Series lists the published chapters of a series in chapter order
func (s *StoryService) Series(ctx context.Context, series string, page, limit int) ([]*domain.Story, *common.Meta, error) {
	series = strings.TrimSpace(series)
	if series == "" {
		return nil, nil, common.ErrInvalidInput
	}
	return s.List(ctx, nil, domain.ContentFilter{
		Series: series,
		Page:   page,
		Limit:  limit,
		Sort:   "chapter",
	})
}
