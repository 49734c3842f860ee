package service

import (
	"context"
	"sync"
	"time"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/stretchr/testify/mock"
)

// --- Mock ContentRepository ---

type mockContentRepo[T any, PT repository.ContentModel[T]] struct {
	mock.Mock
}

func (m *mockContentRepo[T, PT]) Create(ctx context.Context, item PT, categoryIDs, tagIDs []uint64) error {
	args := m.Called(item, categoryIDs, tagIDs)
	if args.Error(0) == nil && item.Base().ID == 0 {
		item.Base().ID = 1
	}
	return args.Error(0)
}

func (m *mockContentRepo[T, PT]) Update(ctx context.Context, item PT, categoryIDs, tagIDs *[]uint64) error {
	return m.Called(item, categoryIDs, tagIDs).Error(0)
}

func (m *mockContentRepo[T, PT]) Delete(ctx context.Context, id uint64) error {
	return m.Called(id).Error(0)
}

func (m *mockContentRepo[T, PT]) FindByID(ctx context.Context, id uint64) (PT, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockContentRepo[T, PT]) FindBySlug(ctx context.Context, slug string) (PT, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(PT), args.Error(1)
}

func (m *mockContentRepo[T, PT]) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	args := m.Called(slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockContentRepo[T, PT]) List(ctx context.Context, filter domain.ContentFilter) ([]PT, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]PT), args.Get(1).(int64), args.Error(2)
}

func (m *mockContentRepo[T, PT]) IncrementViewCount(ctx context.Context, id uint64) error {
	return m.Called(id).Error(0)
}

func (m *mockContentRepo[T, PT]) UpdateColumns(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *mockContentRepo[T, PT]) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]PT, error) {
	args := m.Called(now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PT), args.Error(1)
}

func (m *mockContentRepo[T, PT]) Publish(ctx context.Context, id uint64, now time.Time) (bool, error) {
	args := m.Called(id, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockContentRepo[T, PT]) EachBatch(ctx context.Context, size int, fn func([]PT) error) error {
	args := m.Called(size)
	if batch, ok := args.Get(0).([]PT); ok && len(batch) > 0 {
		if err := fn(batch); err != nil {
			return err
		}
	}
	return args.Error(1)
}

// --- Mock ContentLookup ---

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) FindRef(ctx context.Context, ct domain.ContentType, id uint64) (*domain.ContentRef, error) {
	args := m.Called(ct, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentRef), args.Error(1)
}

func (m *mockLookup) ApplySnapshot(ctx context.Context, ct domain.ContentType, id uint64, title, content, excerpt string) error {
	return m.Called(ct, id, title, content, excerpt).Error(0)
}

func (m *mockLookup) CountByAuthor(ctx context.Context, authorID uint64, publishedOnly bool) (map[domain.ContentType]int64, error) {
	args := m.Called(authorID, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ContentType]int64), args.Error(1)
}

// --- Recording Enqueuer ---

type enqueued struct {
	Kind string
	Type domain.ContentType
	ID   uint64
	At   time.Time
	Mail jobs.EmailPayload
}

type recordingEnqueuer struct {
	mu   sync.Mutex
	jobs []enqueued
}

func (r *recordingEnqueuer) add(e enqueued) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, e)
	return nil
}

func (r *recordingEnqueuer) EnqueueEmail(_ context.Context, p jobs.EmailPayload) error {
	return r.add(enqueued{Kind: jobs.TypeEmailSend, Mail: p})
}

func (r *recordingEnqueuer) EnqueueImageProcess(_ context.Context, id uint64) error {
	return r.add(enqueued{Kind: jobs.TypeImageProcess, Type: domain.ContentTypeGalleryItem, ID: id})
}

func (r *recordingEnqueuer) EnqueueIndex(_ context.Context, ct domain.ContentType, id uint64) error {
	return r.add(enqueued{Kind: jobs.TypeSearchIndex, Type: ct, ID: id})
}

func (r *recordingEnqueuer) EnqueueRemove(_ context.Context, ct domain.ContentType, id uint64) error {
	return r.add(enqueued{Kind: jobs.TypeSearchRemove, Type: ct, ID: id})
}

func (r *recordingEnqueuer) EnqueuePublish(_ context.Context, ct domain.ContentType, id uint64, at time.Time) error {
	return r.add(enqueued{Kind: jobs.TypeContentPublish, Type: ct, ID: id, At: at})
}

func (r *recordingEnqueuer) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j.Kind)
	}
	return out
}

// --- Recording VersionRecorder ---

type recordingVersions struct {
	notes []string
}

func (r *recordingVersions) Record(_ context.Context, _ domain.ContentType, _ *domain.ContentBase, _ uint64, note string) error {
	r.notes = append(r.notes, note)
	return nil
}

func uint64Ptr(v uint64) *uint64 { return &v }

func strPtr(v string) *string { return &v }
