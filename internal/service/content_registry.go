package service

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
)

// ContentOperations is the type-agnostic part of a content service
type ContentOperations interface {
	ContentType() domain.ContentType
	PublishScheduled(ctx context.Context, id uint64) error
	PublishDue(ctx context.Context) (int, error)
	SearchDocument(ctx context.Context, id uint64) (*domain.SearchDocument, error)
	EachSearchDocument(ctx context.Context, fn func([]*domain.SearchDocument) error) error
	InvalidateCache(ctx context.Context) error
}

// ContentRegistry dispatches type-agnostic work (jobs, indexing) to the service of a content type
type ContentRegistry struct {
	byType map[domain.ContentType]ContentOperations
}

// NewContentRegistry creates a registry over the given services
func NewContentRegistry(services ...ContentOperations) *ContentRegistry {
	r := &ContentRegistry{byType: make(map[domain.ContentType]ContentOperations, len(services))}
	for _, s := range services {
		r.byType[s.ContentType()] = s
	}
	return r
}

func (r *ContentRegistry) get(ct domain.ContentType) (ContentOperations, error) {
	s, ok := r.byType[ct]
	if !ok {
		return nil, common.ErrInvalidType
	}
	return s, nil
}

// InvalidateCache drops the cache entries owned by one content type
func (r *ContentRegistry) InvalidateCache(ctx context.Context, ct domain.ContentType) error {
	s, err := r.get(ct)
	if err != nil {
		return err
	}
	return s.InvalidateCache(ctx)
}

// PublishScheduled publishes one scheduled item (content:publish task)
func (r *ContentRegistry) PublishScheduled(ctx context.Context, ct domain.ContentType, id uint64) error {
	s, err := r.get(ct)
	if err != nil {
		return err
	}
	return s.PublishScheduled(ctx, id)
}

// PublishDue sweeps every content type for drafts whose schedule has passed
func (r *ContentRegistry) PublishDue(ctx context.Context) (int, error) {
	total := 0
	for _, ct := range domain.ContentTypes {
		s, ok := r.byType[ct]
		if !ok {
			continue
		}
		n, err := s.PublishDue(ctx)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// SearchDocument builds the index document of one item
func (r *ContentRegistry) SearchDocument(ctx context.Context, ct domain.ContentType, id uint64) (*domain.SearchDocument, error) {
	s, err := r.get(ct)
	if err != nil {
		return nil, err
	}
	return s.SearchDocument(ctx, id)
}

// EachSearchDocument walks the published items of every type in batches
func (r *ContentRegistry) EachSearchDocument(ctx context.Context, fn func([]*domain.SearchDocument) error) error {
	for _, ct := range domain.ContentTypes {
		s, ok := r.byType[ct]
		if !ok {
			continue
		}
		if err := s.EachSearchDocument(ctx, fn); err != nil {
			return err
		}
	}
	return nil
}
