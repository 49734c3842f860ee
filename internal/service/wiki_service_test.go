package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeWikiRepo keeps the hierarchy in memory; content methods go to the mock
type fakeWikiRepo struct {
	mockContentRepo[domain.WikiPage, *domain.WikiPage]
	pages map[uint64]*domain.WikiPage
}

func newFakeWikiRepo() *fakeWikiRepo {
	return &fakeWikiRepo{pages: map[uint64]*domain.WikiPage{}}
}

func (f *fakeWikiRepo) add(id uint64, parent *uint64, status domain.ContentStatus) *domain.WikiPage {
	p := &domain.WikiPage{ParentID: parent}
	p.ID = id
	p.Title = fmt.Sprintf("Page %02d", id)
	p.Slug = fmt.Sprintf("page-%d", id)
	p.Status = status
	p.CreatedByID = 7
	f.pages[id] = p
	return p
}

func (f *fakeWikiRepo) FindNode(_ context.Context, id uint64) (*domain.WikiPage, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeWikiRepo) FindChildren(_ context.Context, parentID uint64) ([]*domain.WikiPage, error) {
	var out []*domain.WikiPage
	for id := uint64(1); id <= uint64(len(f.pages))+1; id++ {
		if p, ok := f.pages[id]; ok && p.ParentID != nil && *p.ParentID == parentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeWikiRepo) CountChildren(ctx context.Context, id uint64) (int64, error) {
	children, _ := f.FindChildren(ctx, id)
	return int64(len(children)), nil
}

func (f *fakeWikiRepo) FindPublishedNodes(_ context.Context) ([]*domain.WikiPage, error) {
	var out []*domain.WikiPage
	for id := uint64(1); id <= uint64(len(f.pages))+1; id++ {
		if p, ok := f.pages[id]; ok && p.IsPublished() {
			out = append(out, p)
		}
	}
	return out, nil
}

func newWikiService(repo *fakeWikiRepo) (*WikiService, *recordingEnqueuer) {
	enq := &recordingEnqueuer{}
	return NewWikiService(repo, &recordingVersions{}, enq, cache.NewService(nil)), enq
}

// chain builds 1 <- 2 <- ... <- n (page i+1 is a child of page i)
func chain(repo *fakeWikiRepo, n int) {
	repo.add(1, nil, domain.StatusPublished)
	for i := 2; i <= n; i++ {
		repo.add(uint64(i), uint64Ptr(uint64(i-1)), domain.StatusPublished)
	}
}

func TestUpdatePage_DescendantAsParentRejectedForAnyChainLength(t *testing.T) {
	for n := 2; n <= 12; n++ {
		repo := newFakeWikiRepo()
		chain(repo, n)
		svc, _ := newWikiService(repo)

		for descendant := 2; descendant <= n; descendant++ {
			t.Run(fmt.Sprintf("len=%d/parent=%d", n, descendant), func(t *testing.T) {
				_, err := svc.UpdatePage(context.Background(), moderator, 1, &domain.UpdateWikiPageRequest{
					ParentID: uint64Ptr(uint64(descendant)),
				})
				assert.ErrorIs(t, err, common.ErrCircularReference)
				assert.Equal(t, http.StatusBadRequest, common.StatusFor(err))
			})
		}
	}
}

func TestUpdatePage_SelfParentRejected(t *testing.T) {
	repo := newFakeWikiRepo()
	repo.add(1, nil, domain.StatusPublished)
	svc, _ := newWikiService(repo)

	_, err := svc.UpdatePage(context.Background(), moderator, 1, &domain.UpdateWikiPageRequest{ParentID: uint64Ptr(1)})
	assert.ErrorIs(t, err, common.ErrSelfParent)
}

func TestUpdatePage_MoveToSiblingBranch(t *testing.T) {
	repo := newFakeWikiRepo()
	chain(repo, 3)
	repo.add(4, nil, domain.StatusPublished)
	svc, _ := newWikiService(repo)

	page3 := repo.pages[3]
	repo.On("FindByID", uint64(3)).Return(page3, nil)
	repo.On("Update", mock.MatchedBy(func(p *domain.WikiPage) bool {
		return p.ParentID != nil && *p.ParentID == 4
	}), mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdatePage(context.Background(), moderator, 3, &domain.UpdateWikiPageRequest{ParentID: uint64Ptr(4)})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdatePage_ClearParent(t *testing.T) {
	repo := newFakeWikiRepo()
	chain(repo, 2)
	svc, _ := newWikiService(repo)

	repo.On("FindByID", uint64(2)).Return(repo.pages[2], nil)
	repo.On("Update", mock.MatchedBy(func(p *domain.WikiPage) bool { return p.ParentID == nil }), mock.Anything, mock.Anything).Return(nil)

	_, err := svc.UpdatePage(context.Background(), moderator, 2, &domain.UpdateWikiPageRequest{ClearParent: true})
	require.NoError(t, err)
}

func TestCreatePage_MissingParentIs400(t *testing.T) {
	svc, _ := newWikiService(newFakeWikiRepo())

	_, err := svc.CreatePage(context.Background(), writer, &domain.CreateWikiPageRequest{
		ContentRequest: domain.ContentRequest{Title: "Orphan"},
		ParentID:       uint64Ptr(42),
	})
	assert.ErrorIs(t, err, common.ErrParentNotFound)
	assert.Equal(t, http.StatusBadRequest, common.StatusFor(err))
}

func TestDeletePage_WithChildrenRejected(t *testing.T) {
	repo := newFakeWikiRepo()
	chain(repo, 2)
	svc, enq := newWikiService(repo)

	err := svc.DeletePage(context.Background(), moderator, 1)
	assert.ErrorIs(t, err, common.ErrHasChildren)
	assert.Equal(t, http.StatusBadRequest, common.StatusFor(err))

	repo.On("FindByID", uint64(2)).Return(repo.pages[2], nil)
	repo.On("Delete", uint64(2)).Return(nil)
	require.NoError(t, svc.DeletePage(context.Background(), moderator, 2))
	assert.Len(t, enq.kinds(), 1)
}

func TestTree_BoundedDepthAndTitleOrder(t *testing.T) {
	repo := newFakeWikiRepo()
	chain(repo, 7)
	repo.add(8, nil, domain.StatusPublished)
	repo.add(9, uint64Ptr(8), domain.StatusDraft)
	svc, _ := newWikiService(repo)

	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Page 01", tree[0].Title)
	assert.Equal(t, "Page 08", tree[1].Title)
	assert.Empty(t, tree[1].Children, "drafts are not in the tree")

	depth := 0
	for node := tree[0]; node != nil; depth++ {
		if len(node.Children) == 0 {
			node = nil
			continue
		}
		node = node.Children[0]
	}
	assert.Equal(t, domain.MaxWikiTreeDepth, depth)
}

func TestBreadcrumbs_RootFirst(t *testing.T) {
	repo := newFakeWikiRepo()
	chain(repo, 4)
	svc, _ := newWikiService(repo)
	repo.On("FindBySlug", "page-4").Return(repo.pages[4], nil)

	crumbs, err := svc.Breadcrumbs(context.Background(), nil, "page-4")
	require.NoError(t, err)
	require.Len(t, crumbs, 4)
	for i, c := range crumbs {
		assert.Equal(t, uint64(i+1), c.ID)
	}
}

func TestChildren_HidesDraftsFromPublic(t *testing.T) {
	repo := newFakeWikiRepo()
	repo.add(1, nil, domain.StatusPublished)
	repo.add(2, uint64Ptr(1), domain.StatusPublished)
	repo.add(3, uint64Ptr(1), domain.StatusDraft)
	svc, _ := newWikiService(repo)

	public, err := svc.Children(context.Background(), nil, 1)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	staff, err := svc.Children(context.Background(), moderator, 1)
	require.NoError(t, err)
	assert.Len(t, staff, 2)
}
