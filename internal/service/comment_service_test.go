package service

import (
	"context"
	"testing"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock CommentRepository ---

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	args := m.Called(c)
	if args.Error(0) == nil {
		c.ID = 100
	}
	return args.Error(0)
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	return m.Called(c).Error(0)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(id).Error(0)
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) ListByContent(ctx context.Context, ct domain.ContentType, id uint64, includeHidden bool) ([]*domain.Comment, error) {
	args := m.Called(ct, id, includeHidden)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) CountByContent(ctx context.Context, ct domain.ContentType, id uint64) (int64, error) {
	args := m.Called(ct, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCommentRepo) UpdateStatus(ctx context.Context, id uint64, status domain.CommentStatus) error {
	return m.Called(id, status).Error(0)
}

type recordingNotifier struct {
	sent []*domain.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n *domain.Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func newCommentService() (*CommentService, *mockCommentRepo, *mockLookup, *recordingNotifier) {
	repo := new(mockCommentRepo)
	lookup := new(mockLookup)
	notifier := &recordingNotifier{}
	return NewCommentService(repo, lookup, notifier), repo, lookup, notifier
}

func TestCreateComment_ReplyNotifiesParentAndContentAuthors(t *testing.T) {
	svc, repo, lookup, notifier := newCommentService()
	ref := publishedRef(domain.ContentTypeArticle, 1)
	ref.CreatedByID = 50
	lookup.On("FindRef", domain.ContentTypeArticle, uint64(1)).Return(ref, nil)
	repo.On("FindByID", uint64(9)).Return(&domain.Comment{ID: 9, ContentType: domain.ContentTypeArticle, ContentID: 1, UserID: 60}, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Comment")).Return(nil)

	c, err := svc.Create(context.Background(), writer, &domain.CreateCommentRequest{
		ContentType: domain.ContentTypeArticle,
		ContentID:   1,
		ParentID:    uint64Ptr(9),
		Body:        "  nice read  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "nice read", c.Body)
	assert.Equal(t, domain.CommentApproved, c.Status)

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, uint64(60), notifier.sent[0].UserID)
	assert.Equal(t, domain.NotificationReply, notifier.sent[0].Type)
	assert.Equal(t, uint64(50), notifier.sent[1].UserID)
	assert.Equal(t, "/articles/story#comment-100", notifier.sent[1].Link)
}

func TestCreateComment_NoNotificationToSelf(t *testing.T) {
	svc, repo, lookup, notifier := newCommentService()
	ref := publishedRef(domain.ContentTypeArticle, 1)
	ref.CreatedByID = writer.UserID
	lookup.On("FindRef", domain.ContentTypeArticle, uint64(1)).Return(ref, nil)
	repo.On("FindByID", uint64(9)).Return(&domain.Comment{ID: 9, ContentType: domain.ContentTypeArticle, ContentID: 1, UserID: writer.UserID}, nil)
	repo.On("Create", mock.AnythingOfType("*domain.Comment")).Return(nil)

	_, err := svc.Create(context.Background(), writer, &domain.CreateCommentRequest{
		ContentType: domain.ContentTypeArticle,
		ContentID:   1,
		ParentID:    uint64Ptr(9),
		Body:        "answering my own thread",
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestCreateComment_ParentFromOtherContentRejected(t *testing.T) {
	svc, repo, lookup, notifier := newCommentService()
	lookup.On("FindRef", domain.ContentTypeArticle, uint64(1)).Return(publishedRef(domain.ContentTypeArticle, 1), nil)
	repo.On("FindByID", uint64(9)).Return(&domain.Comment{ID: 9, ContentType: domain.ContentTypeStory, ContentID: 1}, nil)

	_, err := svc.Create(context.Background(), writer, &domain.CreateCommentRequest{
		ContentType: domain.ContentTypeArticle,
		ContentID:   1,
		ParentID:    uint64Ptr(9),
		Body:        "hi",
	})
	assert.ErrorIs(t, err, common.ErrInvalidParentComment)
	assert.Empty(t, notifier.sent)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateComment_LinkSpamRejected(t *testing.T) {
	svc, _, _, _ := newCommentService()
	_, err := svc.Create(context.Background(), writer, &domain.CreateCommentRequest{
		ContentType: domain.ContentTypeArticle,
		ContentID:   1,
		Body:        "see https://bit.ly/xyz",
	})
	assert.ErrorIs(t, err, common.ErrBlockedLink)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	svc, repo, _, _ := newCommentService()
	repo.On("FindByID", uint64(3)).Return(&domain.Comment{ID: 3, UserID: 99}, nil)

	_, err := svc.Update(context.Background(), moderator, 3, &domain.UpdateCommentRequest{Body: "edit"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestDeleteComment_StaffMayDelete(t *testing.T) {
	svc, repo, _, _ := newCommentService()
	repo.On("FindByID", uint64(3)).Return(&domain.Comment{ID: 3, UserID: 99}, nil)
	repo.On("Delete", uint64(3)).Return(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), writer, 3), common.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), moderator, 3))
}

func TestModerate_StaffOnly(t *testing.T) {
	svc, repo, _, _ := newCommentService()
	repo.On("FindByID", uint64(3)).Return(&domain.Comment{ID: 3}, nil)
	repo.On("UpdateStatus", uint64(3), domain.CommentHidden).Return(nil)

	assert.ErrorIs(t, svc.Moderate(context.Background(), writer, 3, domain.CommentHidden), common.ErrForbidden)
	assert.NoError(t, svc.Moderate(context.Background(), moderator, 3, domain.CommentHidden))
	assert.ErrorIs(t, svc.Moderate(context.Background(), moderator, 3, "GONE"), common.ErrInvalidStatus)
}

func TestBuildCommentTree(t *testing.T) {
	comments := []*domain.Comment{
		{ID: 1},
		{ID: 2, ParentID: uint64Ptr(1)},
		{ID: 3},
		{ID: 4, ParentID: uint64Ptr(2)},
		{ID: 5, ParentID: uint64Ptr(77)}, // 숨겨진 부모
	}

	roots := BuildCommentTree(comments)
	require.Len(t, roots, 3)
	assert.Equal(t, []uint64{1, 3, 5}, []uint64{roots[0].ID, roots[1].ID, roots[2].ID})
	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	assert.Equal(t, uint64(4), roots[0].Replies[0].Replies[0].ID)
}
