package repository

import (
	"context"
	"testing"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWikiRepository_Hierarchy(t *testing.T) {
	repo := NewWikiRepository(setupTestDB(t))
	ctx := context.Background()

	page := func(title, slug string, parent *uint64, status domain.ContentStatus) *domain.WikiPage {
		p := &domain.WikiPage{ContentBase: domain.ContentBase{Title: title, Slug: slug, Status: status}, ParentID: parent}
		require.NoError(t, repo.Create(ctx, p, nil, nil))
		return p
	}
	root := page("Root", "root", nil, domain.StatusPublished)
	page("Zeta", "zeta", &root.ID, domain.StatusPublished)
	page("Alpha", "alpha", &root.ID, domain.StatusDraft)

	children, err := repo.FindChildren(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Alpha", children[0].Title)

	n, err := repo.CountChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	nodes, err := repo.FindPublishedNodes(ctx)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	node, err := repo.FindNode(ctx, children[1].ID)
	require.NoError(t, err)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, root.ID, *node.ParentID)
}

func TestWikiRepository_UpdateRejectsCycle(t *testing.T) {
	repo := NewWikiRepository(setupTestDB(t))
	ctx := context.Background()

	a := &domain.WikiPage{ContentBase: domain.ContentBase{Title: "A", Slug: "a", Status: domain.StatusPublished}}
	require.NoError(t, repo.Create(ctx, a, nil, nil))
	b := &domain.WikiPage{ContentBase: domain.ContentBase{Title: "B", Slug: "b", Status: domain.StatusPublished}, ParentID: &a.ID}
	require.NoError(t, repo.Create(ctx, b, nil, nil))

	// 서비스 단 검사를 통과한 뒤 B가 A 밑으로 옮겨진 상황과 같다
	stale, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	stale.ParentID = &b.ID
	assert.ErrorIs(t, repo.Update(ctx, stale, nil, nil), common.ErrCircularReference)

	got, err := repo.FindNode(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	missing := uint64(9999)
	stale.ParentID = &missing
	assert.ErrorIs(t, repo.Update(ctx, stale, nil, nil), common.ErrParentNotFound)

	// 부모가 그대로면 제목만 바뀐다
	child, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	child.Title = "B2"
	require.NoError(t, repo.Update(ctx, child, nil, nil))
	got, err = repo.FindNode(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Title)
}
