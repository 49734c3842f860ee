package repository

import (
	"context"
	"testing"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArticle(title, slug string, status domain.ContentStatus) *domain.Article {
	return &domain.Article{ContentBase: domain.ContentBase{
		Title: title, Slug: slug, Content: "body", Status: status, CreatedByID: 1,
	}}
}

func TestContentRepository_CreateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository[domain.Article](db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newArticle("Hello", "hello", domain.StatusDraft), nil, nil))
	err := repo.Create(ctx, newArticle("Hello again", "hello", domain.StatusDraft), nil, nil)
	assert.ErrorIs(t, err, common.ErrSlugConflict)

	// slugs are unique per content type only
	blogs := NewContentRepository[domain.BlogPost](db)
	post := &domain.BlogPost{ContentBase: domain.ContentBase{Title: "Hello", Slug: "hello", Status: domain.StatusDraft}}
	assert.NoError(t, blogs.Create(ctx, post, nil, nil))
}

func TestContentRepository_UpdateSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository[domain.Article](db)
	ctx := context.Background()

	a := newArticle("A", "a", domain.StatusDraft)
	b := newArticle("B", "b", domain.StatusDraft)
	require.NoError(t, repo.Create(ctx, a, nil, nil))
	require.NoError(t, repo.Create(ctx, b, nil, nil))

	b.Slug = "a"
	assert.ErrorIs(t, repo.Update(ctx, b, nil, nil), common.ErrSlugConflict)

	// keeping its own slug is fine
	a.Title = "A2"
	assert.NoError(t, repo.Update(ctx, a, nil, nil))
}

func TestContentRepository_TaxonomyAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository[domain.Article](db)
	ctx := context.Background()

	news := &domain.Category{Name: "News", Slug: "news"}
	golang := &domain.Tag{Name: "Go", Slug: "go"}
	require.NoError(t, db.Create(news).Error)
	require.NoError(t, db.Create(golang).Error)

	tagged := newArticle("Go release", "go-release", domain.StatusPublished)
	require.NoError(t, repo.Create(ctx, tagged, []uint64{news.ID}, []uint64{golang.ID}))
	require.NoError(t, repo.Create(ctx, newArticle("Other", "other", domain.StatusPublished), nil, nil))
	require.NoError(t, repo.Create(ctx, newArticle("Draft", "draft", domain.StatusDraft), nil, nil))

	items, total, err := repo.List(ctx, domain.ContentFilter{Status: domain.StatusPublished, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = repo.List(ctx, domain.ContentFilter{CategorySlug: "news", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "go-release", items[0].Slug)
	require.Len(t, items[0].Tags, 1)
	assert.Equal(t, "go", items[0].Tags[0].Slug)

	_, total, err = repo.List(ctx, domain.ContentFilter{TagSlug: "go", Search: "RELEASE", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// unknown category id is rejected
	err = repo.Create(ctx, newArticle("X", "x", domain.StatusDraft), []uint64{999}, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	// clearing tags
	empty := []uint64{}
	require.NoError(t, repo.Update(ctx, tagged, nil, &empty))
	reloaded, err := repo.FindByID(ctx, tagged.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Tags)
	assert.Len(t, reloaded.Categories, 1)
}

func TestContentRepository_PublishDueScheduled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository[domain.Story](db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)
	due := &domain.Story{ContentBase: domain.ContentBase{Title: "Due", Slug: "due", Status: domain.StatusDraft, ScheduledAt: &past}}
	later := &domain.Story{ContentBase: domain.ContentBase{Title: "Later", Slug: "later", Status: domain.StatusDraft, ScheduledAt: &future}}
	require.NoError(t, repo.Create(ctx, due, nil, nil))
	require.NoError(t, repo.Create(ctx, later, nil, nil))

	items, err := repo.FindDueScheduled(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, due.ID, items[0].ID)

	published, err := repo.Publish(ctx, due.ID, now)
	require.NoError(t, err)
	assert.True(t, published)

	published, err = repo.Publish(ctx, due.ID, now)
	require.NoError(t, err)
	assert.False(t, published, "second publish is a no-op")

	got, err := repo.FindByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.NotNil(t, got.PublishedAt)
	assert.Nil(t, got.ScheduledAt)
}

func TestContentRepository_DeleteAndViewCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewContentRepository[domain.Article](db)
	ctx := context.Background()

	a := newArticle("A", "a", domain.StatusPublished)
	require.NoError(t, repo.Create(ctx, a, nil, nil))
	require.NoError(t, repo.IncrementViewCount(ctx, a.ID))
	require.NoError(t, repo.IncrementViewCount(ctx, a.ID))

	got, err := repo.FindBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.ViewCount)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), common.ErrNotFound)
}

func TestContentLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	authorID := uint64(7)
	a := newArticle("A", "a", domain.StatusPublished)
	a.AuthorID = &authorID
	require.NoError(t, NewContentRepository[domain.Article](db).Create(ctx, a, nil, nil))

	lookup := NewContentLookup(db)
	ref, err := lookup.FindRef(ctx, domain.ContentTypeArticle, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", ref.Slug)
	assert.Equal(t, domain.ContentTypeArticle, ref.Type)

	_, err = lookup.FindRef(ctx, domain.ContentTypeStory, a.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = lookup.FindRef(ctx, "podcast", 1)
	assert.ErrorIs(t, err, common.ErrInvalidType)

	require.NoError(t, lookup.ApplySnapshot(ctx, domain.ContentTypeArticle, a.ID, "Restored", "old body", "old"))
	ref, err = lookup.FindRef(ctx, domain.ContentTypeArticle, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Restored", ref.Title)
	assert.Equal(t, "a", ref.Slug)

	counts, err := lookup.CountByAuthor(ctx, authorID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[domain.ContentTypeArticle])
	assert.Equal(t, int64(0), counts[domain.ContentTypeStory])
}
