package service

import (
	"context"
	"testing"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/jobs"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ContentVersionRepository ---

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) Create(ctx context.Context, v *domain.ContentVersion) error {
	return m.Called(v).Error(0)
}

func (m *mockVersionRepo) FindByID(ctx context.Context, id uint64) (*domain.ContentVersion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) FindLatest(ctx context.Context, ct domain.ContentType, id uint64) (*domain.ContentVersion, error) {
	args := m.Called(ct, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContentVersion), args.Error(1)
}

func (m *mockVersionRepo) List(ctx context.Context, ct domain.ContentType, id uint64, page, limit int) ([]*domain.ContentVersion, int64, error) {
	args := m.Called(ct, id, page, limit)
	return args.Get(0).([]*domain.ContentVersion), args.Get(1).(int64), args.Error(2)
}

func (m *mockVersionRepo) Prune(ctx context.Context, ct domain.ContentType, id uint64, keep int, autosaveOnly bool) (int64, error) {
	args := m.Called(ct, id, keep, autosaveOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockVersionRepo) ContentKeys(ctx context.Context) ([]repository.ContentKey, error) {
	args := m.Called()
	return args.Get(0).([]repository.ContentKey), args.Error(1)
}

func newVersionService() (*ContentVersionService, *mockVersionRepo, *mockLookup, *recordingEnqueuer) {
	repo := new(mockVersionRepo)
	lookup := new(mockLookup)
	enq := &recordingEnqueuer{}
	return NewContentVersionService(repo, lookup, enq, cache.NewService(nil), 3), repo, lookup, enq
}

func TestCreateVersion_IdenticalAutosaveSkipped(t *testing.T) {
	svc, repo, lookup, _ := newVersionService()
	lookup.On("FindRef", domain.ContentTypeBlogPost, uint64(4)).Return(&domain.ContentRef{CreatedByID: writer.UserID}, nil)
	latest := &domain.ContentVersion{ID: 11, Version: 2, Title: "T", Content: "body"}
	repo.On("FindLatest", domain.ContentTypeBlogPost, uint64(4)).Return(latest, nil)

	v, created, err := svc.Create(context.Background(), writer, &domain.CreateVersionRequest{
		ContentType: domain.ContentTypeBlogPost, ContentID: 4, Title: "T", Content: "body", IsAutosave: true,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint64(11), v.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateVersion_AutosaveTrimsOldAutosaves(t *testing.T) {
	svc, repo, lookup, _ := newVersionService()
	lookup.On("FindRef", domain.ContentTypeBlogPost, uint64(4)).Return(&domain.ContentRef{CreatedByID: writer.UserID}, nil)
	repo.On("FindLatest", domain.ContentTypeBlogPost, uint64(4)).Return(&domain.ContentVersion{Title: "T", Content: "old"}, nil)
	repo.On("Create", mock.AnythingOfType("*domain.ContentVersion")).Return(nil)
	repo.On("Prune", domain.ContentTypeBlogPost, uint64(4), 3, true).Return(int64(1), nil)

	_, created, err := svc.Create(context.Background(), writer, &domain.CreateVersionRequest{
		ContentType: domain.ContentTypeBlogPost, ContentID: 4, Title: "T", Content: "new", IsAutosave: true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	repo.AssertExpectations(t)
}

func TestCreateVersion_OtherUsersContentForbidden(t *testing.T) {
	svc, _, lookup, _ := newVersionService()
	lookup.On("FindRef", domain.ContentTypeStory, uint64(1)).Return(&domain.ContentRef{CreatedByID: 99}, nil)

	_, _, err := svc.Create(context.Background(), writer, &domain.CreateVersionRequest{
		ContentType: domain.ContentTypeStory, ContentID: 1, Title: "x",
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDiffVersions(t *testing.T) {
	from := &domain.ContentVersion{Version: 1, Title: "Draft", Content: "line one\nline two\n"}
	to := &domain.ContentVersion{Version: 2, Title: "Final", Content: "line one\nline 2\nline three\n"}

	d := DiffVersions(from, to)
	assert.Equal(t, 1, d.From)
	assert.Equal(t, 2, d.To)
	require.Len(t, d.Changes, 2)
	assert.Equal(t, domain.FieldChange{Field: "title", From: "Draft", To: "Final"}, d.Changes[0])
	assert.Equal(t, "content", d.Changes[1].Field)
	assert.Equal(t, 2, d.Insertions)
	assert.Equal(t, 1, d.Deletions)
	assert.Contains(t, d.ContentDiff, "  line one\n")
	assert.Contains(t, d.ContentDiff, "- line two\n")
	assert.Contains(t, d.ContentDiff, "+ line three\n")
}

func TestDiff_DifferentContentRejected(t *testing.T) {
	svc, repo, _, _ := newVersionService()
	repo.On("FindByID", uint64(1)).Return(&domain.ContentVersion{ContentType: domain.ContentTypeArticle, ContentID: 1}, nil)
	repo.On("FindByID", uint64(2)).Return(&domain.ContentVersion{ContentType: domain.ContentTypeArticle, ContentID: 2}, nil)

	_, err := svc.Diff(context.Background(), writer, 1, 2)
	assert.ErrorIs(t, err, common.ErrVersionMismatch)
}

func TestVersionReads_HideOthersDrafts(t *testing.T) {
	svc, repo, lookup, _ := newVersionService()
	draft := &domain.ContentRef{CreatedByID: 99, Status: domain.StatusDraft}
	lookup.On("FindRef", domain.ContentTypeArticle, uint64(3)).Return(draft, nil)
	v1 := &domain.ContentVersion{ID: 1, Version: 1, ContentType: domain.ContentTypeArticle, ContentID: 3, Content: "secret"}
	v2 := &domain.ContentVersion{ID: 2, Version: 2, ContentType: domain.ContentTypeArticle, ContentID: 3, Content: "secret 2"}
	repo.On("FindByID", uint64(1)).Return(v1, nil)
	repo.On("FindByID", uint64(2)).Return(v2, nil)
	repo.On("List", domain.ContentTypeArticle, uint64(3), 1, 20).Return([]*domain.ContentVersion{v2, v1}, int64(2), nil)

	ctx := context.Background()
	for _, viewer := range []*Actor{nil, writer} {
		_, _, err := svc.List(ctx, viewer, domain.ContentTypeArticle, 3, 1, 20)
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = svc.Get(ctx, viewer, 1)
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = svc.Diff(ctx, viewer, 1, 2)
		assert.ErrorIs(t, err, common.ErrNotFound)
	}

	owner := &Actor{UserID: 99, Role: domain.RoleUser}
	versions, _, err := svc.List(ctx, owner, domain.ContentTypeArticle, 3, 1, 20)
	require.NoError(t, err)
	assert.Len(t, versions, 2)

	got, err := svc.Get(ctx, moderator, 1)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Content)
}

func TestVersionReads_PublishedVisibleToAnyone(t *testing.T) {
	svc, repo, lookup, _ := newVersionService()
	lookup.On("FindRef", domain.ContentTypeStory, uint64(4)).
		Return(&domain.ContentRef{CreatedByID: 99, Status: domain.StatusPublished}, nil)
	repo.On("FindByID", uint64(7)).Return(&domain.ContentVersion{ID: 7, ContentType: domain.ContentTypeStory, ContentID: 4}, nil)

	_, err := svc.Get(context.Background(), nil, 7)
	assert.NoError(t, err)
}

type recordingInvalidator struct {
	types []domain.ContentType
}

func (r *recordingInvalidator) InvalidateCache(ctx context.Context, ct domain.ContentType) error {
	r.types = append(r.types, ct)
	return nil
}

func TestRestore_InvalidatesThroughContentService(t *testing.T) {
	svc, repo, lookup, _ := newVersionService()
	inv := &recordingInvalidator{}
	svc.UseInvalidator(inv)

	repo.On("FindByID", uint64(9)).Return(&domain.ContentVersion{
		ID: 9, Version: 1, ContentType: domain.ContentTypeWikiPage, ContentID: 2, Title: "Alpha",
	}, nil)
	lookup.On("FindRef", domain.ContentTypeWikiPage, uint64(2)).
		Return(&domain.ContentRef{CreatedByID: writer.UserID, Status: domain.StatusDraft}, nil)
	lookup.On("ApplySnapshot", domain.ContentTypeWikiPage, uint64(2), "Alpha", "", "").Return(nil)
	repo.On("Create", mock.AnythingOfType("*domain.ContentVersion")).Return(nil)

	_, err := svc.Restore(context.Background(), writer, 9)
	require.NoError(t, err)
	assert.Equal(t, []domain.ContentType{domain.ContentTypeWikiPage}, inv.types)
}

func TestRestore_AppliesSnapshotAndReindexes(t *testing.T) {
	svc, repo, lookup, enq := newVersionService()
	repo.On("FindByID", uint64(5)).Return(&domain.ContentVersion{
		ID: 5, Version: 3, ContentType: domain.ContentTypeArticle, ContentID: 8, Title: "Old", Content: "old body",
	}, nil)
	lookup.On("FindRef", domain.ContentTypeArticle, uint64(8)).
		Return(&domain.ContentRef{CreatedByID: writer.UserID, Status: domain.StatusPublished}, nil)
	lookup.On("ApplySnapshot", domain.ContentTypeArticle, uint64(8), "Old", "old body", "").Return(nil)
	repo.On("Create", mock.MatchedBy(func(v *domain.ContentVersion) bool {
		return v.ChangeNote == "restored from version 3" && v.CreatedByID == writer.UserID
	})).Return(nil)

	_, err := svc.Restore(context.Background(), writer, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{jobs.TypeSearchIndex}, enq.kinds())
	lookup.AssertExpectations(t)
}

func TestPrune(t *testing.T) {
	svc, repo, _, _ := newVersionService()
	repo.On("Prune", domain.ContentTypeWikiPage, uint64(2), 5, false).Return(int64(4), nil)

	_, err := svc.Prune(context.Background(), writer, domain.ContentTypeWikiPage, 2, 5)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.Prune(context.Background(), moderator, domain.ContentTypeWikiPage, 2, 0)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	n, err := svc.Prune(context.Background(), moderator, domain.ContentTypeWikiPage, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestPruneAll(t *testing.T) {
	svc, repo, _, _ := newVersionService()
	repo.On("ContentKeys").Return([]repository.ContentKey{
		{ContentType: domain.ContentTypeArticle, ContentID: 1},
		{ContentType: domain.ContentTypeStory, ContentID: 2},
	}, nil)
	repo.On("Prune", domain.ContentTypeArticle, uint64(1), 10, false).Return(int64(2), nil)
	repo.On("Prune", domain.ContentTypeStory, uint64(2), 10, false).Return(int64(0), nil)

	n, err := svc.PruneAll(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
