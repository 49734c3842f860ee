package domain

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators(t *testing.T) {
	require.NoError(t, RegisterValidators())
	require.NoError(t, RegisterValidators())

	ok := RatingRequest{ContentType: ContentTypeArticle, ContentID: 1, Score: 5}
	assert.NoError(t, binding.Validator.ValidateStruct(&ok))

	bad := RatingRequest{ContentType: "podcast", ContentID: 1, Score: 5}
	assert.Error(t, binding.Validator.ValidateStruct(&bad))

	slugOK := AuthorRequest{Name: "Jane", Slug: "jane-doe"}
	assert.NoError(t, binding.Validator.ValidateStruct(&slugOK))

	slugBad := AuthorRequest{Name: "Jane", Slug: "Jane Doe!"}
	assert.Error(t, binding.Validator.ValidateStruct(&slugBad))
}

func TestContentBase_SetStatus(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduled := now.Add(time.Hour)
	b := &ContentBase{Status: StatusDraft, ScheduledAt: &scheduled}

	b.SetStatus(StatusPublished, now)
	require.NotNil(t, b.PublishedAt)
	assert.Equal(t, now, *b.PublishedAt)
	assert.Nil(t, b.ScheduledAt)

	// republishing keeps the original publish date
	b.SetStatus(StatusArchived, now.Add(time.Hour))
	b.SetStatus(StatusPublished, now.Add(2*time.Hour))
	assert.Equal(t, now, *b.PublishedAt)
}

func TestContentTypeValid(t *testing.T) {
	for _, ct := range ContentTypes {
		assert.True(t, ct.Valid())
	}
	assert.False(t, ContentType("video").Valid())
	assert.True(t, RoleModerator.IsStaff())
	assert.False(t, RoleUser.IsStaff())
}

func TestSessionActive(t *testing.T) {
	now := time.Now()
	s := &Session{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, s.Active(now))
	s.RevokedAt = &now
	assert.False(t, s.Active(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(-time.Second)}).Active(now))
}
