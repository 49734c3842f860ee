package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"github.com/mediaportal/portal-backend/pkg/markdown"
)

const (
	excerptLength    = 200
	dueBatchSize     = 100
	indexBatchSize   = 200
	maxContentLength = 1 << 20
)

// ContentService implements the CRUD flow shared by every content type
type ContentService[T any, PT repository.ContentModel[T]] struct {
	repo     repository.ContentRepository[T, PT]
	versions VersionRecorder
	jobs     jobs.Enqueuer
	cache    cache.Service
	ct       domain.ContentType
	now      func() time.Time

	// extraKeys are dropped together with the type's detail and list entries
	extraKeys []string
}

// NewContentService creates the service of one content type
func NewContentService[T any, PT repository.ContentModel[T]](
	repo repository.ContentRepository[T, PT],
	versions VersionRecorder,
	enqueuer jobs.Enqueuer,
	cacheService cache.Service,
) *ContentService[T, PT] {
	return &ContentService[T, PT]{
		repo:     repo,
		versions: versions,
		jobs:     enqueuer,
		cache:    cacheService,
		ct:       PT(new(T)).ContentType(),
		now:      time.Now,
	}
}

// ContentType returns the type this service manages
func (s *ContentService[T, PT]) ContentType() domain.ContentType { return s.ct }

func (s *ContentService[T, PT]) warn(err error, id uint64, msg string) {
	pkglogger.GetLogger().Warn().
		Err(err).
		Str("content_type", string(s.ct)).
		Uint64("content_id", id).
		Msg(msg)
}

// Create inserts a new item; extend sets type-specific fields before the insert
func (s *ContentService[T, PT]) Create(ctx context.Context, actor *Actor, req *domain.ContentRequest, extend func(PT)) (PT, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	item := PT(new(T))
	b := item.Base()
	b.Title = strings.TrimSpace(req.Title)
	if b.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}
	if len(req.Content) > maxContentLength {
		return nil, fmt.Errorf("%w: content too long", common.ErrInvalidInput)
	}
	b.Slug = req.Slug
	if b.Slug == "" {
		b.Slug = MakeSlug(b.Title)
	}
	b.Content = req.Content
	b.Excerpt = strings.TrimSpace(req.Excerpt)
	if b.Excerpt == "" {
		b.Excerpt = markdown.Excerpt(req.Content, excerptLength)
	}
	b.AuthorID = req.AuthorID
	b.CreatedByID = actor.UserID

	now := s.now()
	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, common.ErrInvalidStatus
	}
	b.SetStatus(status, now)
	if err := s.applySchedule(b, req.ScheduledAt, now); err != nil {
		return nil, err
	}
	if extend != nil {
		extend(item)
	}

	if err := s.repo.Create(ctx, item, req.CategoryIDs, req.TagIDs); err != nil {
		return nil, err
	}
	s.record(ctx, b, actor.UserID, "created")
	s.afterWrite(ctx, b, false)

	return s.repo.FindByID(ctx, b.ID)
}

// applySchedule validates scheduledAt; only drafts can be scheduled and only into the future
func (s *ContentService[T, PT]) applySchedule(b *domain.ContentBase, at *time.Time, now time.Time) error {
	if at == nil {
		return nil
	}
	if !at.After(now) {
		return fmt.Errorf("%w: scheduled_at must be in the future", common.ErrInvalidInput)
	}
	if b.Status != domain.StatusDraft {
		return fmt.Errorf("%w: only drafts can be scheduled", common.ErrInvalidInput)
	}
	t := at.UTC()
	b.ScheduledAt = &t
	return nil
}

// Update applies the non-nil fields of req; a title change regenerates the slug unless one is given
func (s *ContentService[T, PT]) Update(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateContentRequest, extend func(PT)) (PT, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b := item.Base()
	if !actor.CanModify(b.CreatedByID) {
		return nil, common.ErrForbidden
	}
	wasPublished := b.IsPublished()
	oldSlug := b.Slug

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", common.ErrInvalidInput)
		}
		if title != b.Title {
			b.Title = title
			if req.Slug == nil {
				b.Slug = MakeSlug(title)
			}
		}
	}
	if req.Slug != nil {
		b.Slug = *req.Slug
	}
	if req.Content != nil {
		if len(*req.Content) > maxContentLength {
			return nil, fmt.Errorf("%w: content too long", common.ErrInvalidInput)
		}
		b.Content = *req.Content
		if req.Excerpt == nil {
			b.Excerpt = markdown.Excerpt(b.Content, excerptLength)
		}
	}
	if req.Excerpt != nil {
		b.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.AuthorID != nil {
		b.AuthorID = req.AuthorID
	}

	now := s.now()
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, common.ErrInvalidStatus
		}
		b.SetStatus(*req.Status, now)
		if *req.Status != domain.StatusDraft {
			b.ScheduledAt = nil
		}
	}
	if err := s.applySchedule(b, req.ScheduledAt, now); err != nil {
		return nil, err
	}
	if extend != nil {
		extend(item)
	}

	if err := s.repo.Update(ctx, item, req.CategoryIDs, req.TagIDs); err != nil {
		return nil, err
	}
	note := req.ChangeNote
	if note == "" {
		note = "updated"
	}
	s.record(ctx, b, actor.UserID, note)
	if oldSlug != b.Slug {
		_ = s.cache.Delete(ctx, cache.ContentKey(string(s.ct), oldSlug))
	}
	s.afterWrite(ctx, b, wasPublished)

	return s.repo.FindByID(ctx, id)
}

// Delete removes an item; only its creator or staff may delete
func (s *ContentService[T, PT]) Delete(ctx context.Context, actor *Actor, id uint64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(item.Base().CreatedByID) {
		return common.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.jobs.EnqueueRemove(ctx, s.ct, id); err != nil {
		s.warn(err, id, "enqueue search removal failed")
	}
	s.invalidate(ctx)
	return nil
}

// GetBySlug returns a visible item with rendered HTML and bumps its view count
func (s *ContentService[T, PT]) GetBySlug(ctx context.Context, viewer *Actor, slug string) (PT, error) {
	key := cache.ContentKey(string(s.ct), slug)
	item := PT(new(T))
	if err := s.cache.Get(ctx, key, item); err != nil {
		found, err := s.repo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		item = found
		if err := s.render(item); err != nil {
			return nil, err
		}
		if item.Base().IsPublished() {
			_ = s.cache.Set(ctx, key, item, cache.TTLContent)
		}
	}

	if !s.visible(viewer, item.Base()) {
		return nil, common.ErrNotFound
	}
	if err := s.repo.IncrementViewCount(ctx, item.Base().ID); err != nil {
		s.warn(err, item.Base().ID, "view count update failed")
	}
	return item, nil
}

// GetByID returns a visible item with rendered HTML
func (s *ContentService[T, PT]) GetByID(ctx context.Context, viewer *Actor, id uint64) (PT, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.visible(viewer, item.Base()) {
		return nil, common.ErrNotFound
	}
	if err := s.render(item); err != nil {
		return nil, err
	}
	return item, nil
}

// visible: published items are public, the rest only for their creator and staff
func (s *ContentService[T, PT]) visible(viewer *Actor, b *domain.ContentBase) bool {
	return b.IsPublished() || viewer.CanModify(b.CreatedByID)
}

func (s *ContentService[T, PT]) render(item PT) error {
	html, err := markdown.Render(item.Base().Content)
	if err != nil {
		return fmt.Errorf("render %s %d: %w", s.ct, item.Base().ID, err)
	}
	item.Base().ContentHTML = html
	return nil
}

// List returns one page; non-staff viewers only ever see published items
func (s *ContentService[T, PT]) List(ctx context.Context, viewer *Actor, filter domain.ContentFilter) ([]PT, *common.Meta, error) {
	if !viewer.IsStaff() {
		filter.Status = domain.StatusPublished
	} else if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, common.ErrInvalidStatus
	}

	type page struct {
		Items []PT  `json:"items"`
		Total int64 `json:"total"`
	}
	cacheable := filter.Status == domain.StatusPublished
	key := cache.ListKey(string(s.ct), filterValues(filter))
	if cacheable {
		var cached page
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Items, common.NewMeta(filter.Page, filter.Limit, cached.Total), nil
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	if cacheable {
		_ = s.cache.Set(ctx, key, page{Items: items, Total: total}, cache.TTLList)
	}
	return items, common.NewMeta(filter.Page, filter.Limit, total), nil
}

func filterValues(f domain.ContentFilter) url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("status", string(f.Status))
	set("category", f.CategorySlug)
	set("tag", f.TagSlug)
	set("search", f.Search)
	set("series", f.Series)
	set("genre", f.Genre)
	set("sort", f.Sort)
	if f.AuthorID > 0 {
		v.Set("author", strconv.FormatUint(f.AuthorID, 10))
	}
	if f.Featured != nil {
		v.Set("featured", strconv.FormatBool(*f.Featured))
	}
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("limit", strconv.Itoa(f.Limit))
	return v
}

// PublishScheduled publishes one item if its schedule is due; stale tasks are ignored
func (s *ContentService[T, PT]) PublishScheduled(ctx context.Context, id uint64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	b := item.Base()
	now := s.now()
	if b.Status != domain.StatusDraft || b.ScheduledAt == nil || b.ScheduledAt.After(now) {
		return nil
	}
	return s.publish(ctx, b, now)
}

func (s *ContentService[T, PT]) publish(ctx context.Context, b *domain.ContentBase, now time.Time) error {
	published, err := s.repo.Publish(ctx, b.ID, now)
	if err != nil {
		return err
	}
	if !published {
		return nil
	}
	b.Status = domain.StatusPublished
	s.afterWrite(ctx, b, false)
	pkglogger.GetLogger().Info().
		Str("content_type", string(s.ct)).
		Uint64("content_id", b.ID).
		Msg("scheduled content published")
	return nil
}

// PublishDue publishes every draft whose schedule has passed
func (s *ContentService[T, PT]) PublishDue(ctx context.Context) (int, error) {
	now := s.now()
	items, err := s.repo.FindDueScheduled(ctx, now, dueBatchSize)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		if err := s.publish(ctx, item.Base(), now); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// SearchDocument builds the index document of one item
func (s *ContentService[T, PT]) SearchDocument(ctx context.Context, id uint64) (*domain.SearchDocument, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return BuildSearchDocument(item), nil
}

// EachSearchDocument walks all items in batches, for reindexing
func (s *ContentService[T, PT]) EachSearchDocument(ctx context.Context, fn func([]*domain.SearchDocument) error) error {
	return s.repo.EachBatch(ctx, indexBatchSize, func(items []PT) error {
		docs := make([]*domain.SearchDocument, 0, len(items))
		for _, item := range items {
			if item.Base().IsPublished() {
				docs = append(docs, BuildSearchDocument(item))
			}
		}
		if len(docs) == 0 {
			return nil
		}
		return fn(docs)
	})
}

// BuildSearchDocument maps any content model onto the search document
func BuildSearchDocument(item domain.Content) *domain.SearchDocument {
	b := item.Base()
	rel := item.Relations()
	doc := &domain.SearchDocument{
		ID:          SearchDocumentID(item.ContentType(), b.ID),
		Type:        item.ContentType(),
		ContentID:   b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Excerpt:     b.Excerpt,
		Body:        markdown.PlainText(b.Content),
		Status:      b.Status,
		PublishedAt: b.PublishedAt,
		Categories:  []string{},
		Tags:        []string{},
		Suggest:     []string{b.Title},
	}
	if rel.Author != nil {
		doc.AuthorName = rel.Author.Name
	}
	for _, c := range rel.Categories {
		doc.Categories = append(doc.Categories, c.Name)
	}
	for _, t := range rel.Tags {
		doc.Tags = append(doc.Tags, t.Name)
		doc.Suggest = append(doc.Suggest, t.Name)
	}
	return doc
}

// SearchDocumentID is the index id of a content item, e.g. "article_12"
func SearchDocumentID(ct domain.ContentType, id uint64) string {
	return fmt.Sprintf("%s_%d", ct, id)
}

// record snapshots the item; failures are logged, the write already succeeded
func (s *ContentService[T, PT]) record(ctx context.Context, b *domain.ContentBase, actorID uint64, note string) {
	if s.versions == nil {
		return
	}
	if err := s.versions.Record(ctx, s.ct, b, actorID, note); err != nil {
		s.warn(err, b.ID, "version snapshot failed")
	}
}

// afterWrite syncs cache, search index and publish schedule with the new row state
func (s *ContentService[T, PT]) afterWrite(ctx context.Context, b *domain.ContentBase, wasPublished bool) {
	s.invalidate(ctx)
	switch {
	case b.IsPublished():
		if err := s.jobs.EnqueueIndex(ctx, s.ct, b.ID); err != nil {
			s.warn(err, b.ID, "enqueue index failed")
		}
	case wasPublished:
		if err := s.jobs.EnqueueRemove(ctx, s.ct, b.ID); err != nil {
			s.warn(err, b.ID, "enqueue search removal failed")
		}
	}
	if b.ScheduledAt != nil && b.Status == domain.StatusDraft {
		if err := s.jobs.EnqueuePublish(ctx, s.ct, b.ID, *b.ScheduledAt); err != nil {
			s.warn(err, b.ID, "enqueue scheduled publish failed")
		}
	}
}

// InvalidateCache drops the detail, list and extra entries of this content type
func (s *ContentService[T, PT]) InvalidateCache(ctx context.Context) error {
	if err := s.cache.InvalidateContent(ctx, string(s.ct)); err != nil {
		return err
	}
	if len(s.extraKeys) > 0 {
		return s.cache.Delete(ctx, s.extraKeys...)
	}
	return nil
}

func (s *ContentService[T, PT]) invalidate(ctx context.Context) {
	if err := s.InvalidateCache(ctx); err != nil {
		s.warn(err, 0, "cache invalidation failed")
	}
}
