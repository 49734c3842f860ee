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

// --- Mock AuthorRepository ---

type mockAuthorRepo struct {
	mock.Mock
}

func (m *mockAuthorRepo) Create(ctx context.Context, a *domain.Author) error {
	return m.Called(a).Error(0)
}

func (m *mockAuthorRepo) Update(ctx context.Context, a *domain.Author) error {
	return m.Called(a).Error(0)
}

func (m *mockAuthorRepo) Delete(ctx context.Context, id uint64) error {
	return m.Called(id).Error(0)
}

func (m *mockAuthorRepo) FindByID(ctx context.Context, id uint64) (*domain.Author, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Author), args.Error(1)
}

func (m *mockAuthorRepo) FindBySlug(ctx context.Context, slug string) (*domain.Author, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Author), args.Error(1)
}

func (m *mockAuthorRepo) FindByUserID(ctx context.Context, userID uint64) (*domain.Author, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Author), args.Error(1)
}

func (m *mockAuthorRepo) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	args := m.Called(slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockAuthorRepo) List(ctx context.Context, search string, page, limit int) ([]*domain.Author, int64, error) {
	args := m.Called(search, page, limit)
	return args.Get(0).([]*domain.Author), args.Get(1).(int64), args.Error(2)
}

func newAuthorService() (*AuthorService, *mockAuthorRepo, *fakeUserRepo, *mockLookup) {
	repo := new(mockAuthorRepo)
	users := &fakeUserRepo{users: map[uint64]*domain.User{7: {ID: 7, Username: "writer"}}}
	lookup := new(mockLookup)
	return NewAuthorService(repo, users, lookup), repo, users, lookup
}

func TestCreateAuthor_SlugFromName(t *testing.T) {
	svc, repo, _, _ := newAuthorService()
	repo.On("SlugExists", "ada-lovelace", uint64(0)).Return(false, nil)
	repo.On("FindByUserID", uint64(7)).Return(nil, common.ErrNotFound)
	repo.On("Create", mock.AnythingOfType("*domain.Author")).Return(nil)

	a, err := svc.Create(context.Background(), &domain.AuthorRequest{Name: " Ada Lovelace ", UserID: uint64Ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", a.Name)
	assert.Equal(t, "ada-lovelace", a.Slug)
	assert.Equal(t, uint64(7), *a.UserID)
}

func TestCreateAuthor_SlugConflict(t *testing.T) {
	svc, repo, _, _ := newAuthorService()
	repo.On("SlugExists", "ada", uint64(0)).Return(true, nil)

	_, err := svc.Create(context.Background(), &domain.AuthorRequest{Name: "Ada"})
	assert.ErrorIs(t, err, common.ErrSlugConflict)
}

func TestCreateAuthor_UserAlreadyLinked(t *testing.T) {
	svc, repo, _, _ := newAuthorService()
	repo.On("SlugExists", "ada", uint64(0)).Return(false, nil)
	repo.On("FindByUserID", uint64(7)).Return(&domain.Author{ID: 3}, nil)

	_, err := svc.Create(context.Background(), &domain.AuthorRequest{Name: "Ada", UserID: uint64Ptr(7)})
	assert.ErrorIs(t, err, common.ErrAuthorLinked)

	_, err = svc.Create(context.Background(), &domain.AuthorRequest{Name: "Ada", UserID: uint64Ptr(404)})
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestUpdateAuthor_KeepsOwnLink(t *testing.T) {
	svc, repo, _, _ := newAuthorService()
	repo.On("FindByID", uint64(3)).Return(&domain.Author{ID: 3, Name: "Ada", Slug: "ada"}, nil)
	repo.On("FindByUserID", uint64(7)).Return(&domain.Author{ID: 3}, nil)
	repo.On("SlugExists", "countess", uint64(3)).Return(false, nil)
	repo.On("Update", mock.AnythingOfType("*domain.Author")).Return(nil)

	a, err := svc.Update(context.Background(), 3, &domain.UpdateAuthorRequest{Name: strPtr("Countess"), UserID: uint64Ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, "countess", a.Slug)
}

func TestDeleteAuthor_BlockedByContent(t *testing.T) {
	svc, repo, _, lookup := newAuthorService()
	repo.On("FindByID", uint64(3)).Return(&domain.Author{ID: 3}, nil)
	lookup.On("CountByAuthor", uint64(3), false).Return(map[domain.ContentType]int64{domain.ContentTypeStory: 1}, nil).Once()

	assert.ErrorIs(t, svc.Delete(context.Background(), 3), common.ErrAuthorHasContent)

	lookup.On("CountByAuthor", uint64(3), false).Return(map[domain.ContentType]int64{}, nil)
	repo.On("Delete", uint64(3)).Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), 3))
}

func TestContentSummary_CountsEveryType(t *testing.T) {
	svc, repo, _, lookup := newAuthorService()
	repo.On("FindBySlug", "ada").Return(&domain.Author{ID: 3, Slug: "ada"}, nil)
	lookup.On("CountByAuthor", uint64(3), true).Return(map[domain.ContentType]int64{
		domain.ContentTypeArticle: 2,
		domain.ContentTypeStory:   1,
	}, nil)

	s, err := svc.ContentSummary(context.Background(), "ada")
	require.NoError(t, err)
	assert.Len(t, s.Counts, len(domain.ContentTypes))
	assert.Equal(t, int64(0), s.Counts[domain.ContentTypeWikiPage])
	assert.Equal(t, int64(3), s.Total)
}

type recordingCloser struct {
	closed []uint64
}

func (r *recordingCloser) LogoutAll(_ context.Context, userID uint64) (int, error) {
	r.closed = append(r.closed, userID)
	return 1, nil
}

func TestUpdateRole(t *testing.T) {
	users := &fakeUserRepo{users: map[uint64]*domain.User{
		1: {ID: 1, Role: domain.RoleAdmin},
		7: {ID: 7, Role: domain.RoleUser},
	}}
	closer := &recordingCloser{}
	svc := NewUserService(users, closer)
	admin := &Actor{UserID: 1, Role: domain.RoleAdmin}
	ctx := context.Background()

	_, err := svc.UpdateRole(ctx, moderator, 7, domain.RoleModerator)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = svc.UpdateRole(ctx, admin, 1, domain.RoleUser)
	assert.ErrorIs(t, err, common.ErrForbidden, "admins cannot demote themselves")

	u, err := svc.UpdateRole(ctx, admin, 7, domain.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleModerator, u.Role)
	assert.Equal(t, []uint64{7}, closer.closed)
}
