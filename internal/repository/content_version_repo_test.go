package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedVersions(t *testing.T, repo ContentVersionRepository, ct domain.ContentType, id uint64, n int, autosave bool) {
	t.Helper()
	for i := 0; i < n; i++ {
		v := &domain.ContentVersion{
			ContentType: ct, ContentID: id,
			Title: fmt.Sprintf("v%d", i), Content: "body", IsAutosave: autosave,
		}
		require.NoError(t, repo.Create(context.Background(), v))
	}
}

func versionNumbers(t *testing.T, repo ContentVersionRepository, ct domain.ContentType, id uint64) []int {
	t.Helper()
	versions, _, err := repo.List(context.Background(), ct, id, 1, 100)
	require.NoError(t, err)
	nums := make([]int, 0, len(versions))
	for _, v := range versions {
		nums = append(nums, v.Version)
	}
	return nums
}

func TestContentVersionRepository_SequentialNumbers(t *testing.T) {
	repo := NewContentVersionRepository(setupTestDB(t))
	seedVersions(t, repo, domain.ContentTypeArticle, 1, 3, false)
	seedVersions(t, repo, domain.ContentTypeArticle, 2, 1, false)

	assert.Equal(t, []int{3, 2, 1}, versionNumbers(t, repo, domain.ContentTypeArticle, 1))
	assert.Equal(t, []int{1}, versionNumbers(t, repo, domain.ContentTypeArticle, 2))

	latest, err := repo.FindLatest(context.Background(), domain.ContentTypeArticle, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)

	none, err := repo.FindLatest(context.Background(), domain.ContentTypeStory, 1)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestContentVersionRepository_PruneKeepsExactlyKeepCount(t *testing.T) {
	for _, tc := range []struct{ total, keep int }{{10, 3}, {3, 3}, {2, 5}, {5, 1}} {
		t.Run(fmt.Sprintf("total=%d keep=%d", tc.total, tc.keep), func(t *testing.T) {
			repo := NewContentVersionRepository(setupTestDB(t))
			seedVersions(t, repo, domain.ContentTypeWikiPage, 1, tc.total, false)
			seedVersions(t, repo, domain.ContentTypeWikiPage, 2, 4, false)

			deleted, err := repo.Prune(context.Background(), domain.ContentTypeWikiPage, 1, tc.keep, false)
			require.NoError(t, err)

			want := tc.keep
			if tc.total < tc.keep {
				want = tc.total
			}
			nums := versionNumbers(t, repo, domain.ContentTypeWikiPage, 1)
			assert.Len(t, nums, want)
			assert.Equal(t, int64(tc.total-want), deleted)
			if want > 0 {
				assert.Equal(t, tc.total, nums[0], "newest version survives")
				assert.Equal(t, tc.total-want+1, nums[len(nums)-1])
			}
			// other content is untouched
			assert.Len(t, versionNumbers(t, repo, domain.ContentTypeWikiPage, 2), 4)
		})
	}
}

func TestContentVersionRepository_PruneAutosavesOnly(t *testing.T) {
	repo := NewContentVersionRepository(setupTestDB(t))
	seedVersions(t, repo, domain.ContentTypeBlogPost, 1, 2, false) // 1,2 manual
	seedVersions(t, repo, domain.ContentTypeBlogPost, 1, 4, true)  // 3..6 autosave

	deleted, err := repo.Prune(context.Background(), domain.ContentTypeBlogPost, 1, 2, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, []int{6, 5, 2, 1}, versionNumbers(t, repo, domain.ContentTypeBlogPost, 1))

	keys, err := repo.ContentKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []ContentKey{{ContentType: domain.ContentTypeBlogPost, ContentID: 1}}, keys)
}
