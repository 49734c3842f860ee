package service

import (
	"context"
	"errors"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
)

// RatingService manages per-user content ratings
type RatingService struct {
	repo   repository.RatingRepository
	lookup repository.ContentLookup
	cache  cache.Service
}

// NewRatingService creates a new RatingService
func NewRatingService(repo repository.RatingRepository, lookup repository.ContentLookup, cacheService cache.Service) *RatingService {
	return &RatingService{repo: repo, lookup: lookup, cache: cacheService}
}

// Rate creates or replaces the actor's rating of a published item; created is false on update
func (s *RatingService) Rate(ctx context.Context, actor *Actor, req *domain.RatingRequest) (*domain.Rating, bool, error) {
	if actor == nil {
		return nil, false, common.ErrUnauthorized
	}
	if req.Score < 1 || req.Score > 5 {
		return nil, false, common.ErrInvalidScore
	}
	if err := s.checkRateable(ctx, req.ContentType, req.ContentID); err != nil {
		return nil, false, err
	}

	created := false
	if _, err := s.repo.Find(ctx, actor.UserID, req.ContentType, req.ContentID); err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, false, err
		}
		created = true
	}

	rating := &domain.Rating{
		UserID:      actor.UserID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Score:       req.Score,
		Review:      req.Review,
	}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return nil, false, err
	}
	s.invalidate(ctx, req.ContentType, req.ContentID)
	return rating, created, nil
}

func (s *RatingService) checkRateable(ctx context.Context, ct domain.ContentType, id uint64) error {
	ref, err := s.lookup.FindRef(ctx, ct, id)
	if err != nil {
		return err
	}
	if ref.Status != domain.StatusPublished {
		return common.ErrNotFound
	}
	return nil
}

// Mine returns the actor's own rating of an item
func (s *RatingService) Mine(ctx context.Context, actor *Actor, ct domain.ContentType, id uint64) (*domain.Rating, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	if !ct.Valid() {
		return nil, common.ErrInvalidType
	}
	return s.repo.Find(ctx, actor.UserID, ct, id)
}

// Delete removes the actor's own rating
func (s *RatingService) Delete(ctx context.Context, actor *Actor, ct domain.ContentType, id uint64) error {
	if actor == nil {
		return common.ErrUnauthorized
	}
	if !ct.Valid() {
		return common.ErrInvalidType
	}
	if err := s.repo.Delete(ctx, actor.UserID, ct, id); err != nil {
		return err
	}
	s.invalidate(ctx, ct, id)
	return nil
}

// Summary returns average, count and score distribution of an item
func (s *RatingService) Summary(ctx context.Context, ct domain.ContentType, id uint64) (*domain.RatingSummary, error) {
	if !ct.Valid() {
		return nil, common.ErrInvalidType
	}
	key := cache.RatingKey(string(ct), id)
	var cached domain.RatingSummary
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	if _, err := s.lookup.FindRef(ctx, ct, id); err != nil {
		return nil, err
	}
	summary, err := s.repo.Summary(ctx, ct, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, summary, cache.TTLRating)
	return summary, nil
}

func (s *RatingService) invalidate(ctx context.Context, ct domain.ContentType, id uint64) {
	_ = s.cache.Delete(ctx, cache.RatingKey(string(ct), id))
}
