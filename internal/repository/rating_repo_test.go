package repository

import (
	"context"
	"testing"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingRepository_UpsertIsIdempotentPerUserContent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	first := &domain.Rating{UserID: 1, ContentType: domain.ContentTypeStory, ContentID: 10, Score: 3}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &domain.Rating{UserID: 1, ContentType: domain.ContentTypeStory, ContentID: 10, Score: 5, Review: "better"}
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	require.NoError(t, db.Model(&domain.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Score)

	stored, err := repo.Find(ctx, 1, domain.ContentTypeStory, 10)
	require.NoError(t, err)
	assert.Equal(t, "better", stored.Review)
}

func TestRatingRepository_Summary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRatingRepository(db)
	ctx := context.Background()

	for user, score := range map[uint64]int{1: 5, 2: 4, 3: 5, 4: 1} {
		require.NoError(t, repo.Upsert(ctx, &domain.Rating{UserID: user, ContentType: domain.ContentTypeArticle, ContentID: 1, Score: score}))
	}
	// other content does not leak into the summary
	require.NoError(t, repo.Upsert(ctx, &domain.Rating{UserID: 1, ContentType: domain.ContentTypeArticle, ContentID: 2, Score: 2}))

	s, err := repo.Summary(ctx, domain.ContentTypeArticle, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.Count)
	assert.InDelta(t, 3.75, s.Average, 0.0001)
	assert.Equal(t, int64(2), s.Distribution[5])
	assert.Equal(t, int64(0), s.Distribution[2])

	empty, err := repo.Summary(ctx, domain.ContentTypeArticle, 99)
	require.NoError(t, err)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Average)

	require.NoError(t, repo.Delete(ctx, 4, domain.ContentTypeArticle, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 4, domain.ContentTypeArticle, 1), common.ErrNotFound)
}
