package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	delay := ExponentialBackoff(2 * time.Second)
	assert.Equal(t, 2*time.Second, delay(0, nil, nil))
	assert.Equal(t, 4*time.Second, delay(1, nil, nil))
	assert.Equal(t, 8*time.Second, delay(2, nil, nil))
	assert.Equal(t, 2*time.Second, delay(-3, nil, nil))
}

func TestMaxRetry(t *testing.T) {
	assert.Equal(t, 2, MaxRetry(3), "three attempts are one try plus two retries")
	assert.Equal(t, 0, MaxRetry(1))
	assert.Equal(t, 0, MaxRetry(0))
}

func TestNewPublishTask(t *testing.T) {
	at := time.Unix(1700000000, 0)
	task, err := NewPublishTask(domain.ContentTypeArticle, 5, at)
	require.NoError(t, err)
	assert.Equal(t, TypeContentPublish, task.Type())

	var p ContentPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, ContentPayload{ContentType: domain.ContentTypeArticle, ContentID: 5}, p)
}

type mockIndexer struct{ mock.Mock }

func (m *mockIndexer) IndexContent(ctx context.Context, ct domain.ContentType, id uint64) error {
	return m.Called(ctx, ct, id).Error(0)
}

func (m *mockIndexer) RemoveContent(ctx context.Context, ct domain.ContentType, id uint64) error {
	return m.Called(ctx, ct, id).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func TestHandlers_Index(t *testing.T) {
	idx := new(mockIndexer)
	h := &Handlers{Indexer: idx}
	ctx := context.Background()

	idx.On("IndexContent", ctx, domain.ContentTypeStory, uint64(3)).Return(nil).Once()
	task, _ := NewIndexTask(domain.ContentTypeStory, 3)
	assert.NoError(t, h.HandleIndex(ctx, task))

	// deleted rows are not retried
	idx.On("IndexContent", ctx, domain.ContentTypeStory, uint64(4)).Return(common.ErrNotFound).Once()
	task, _ = NewIndexTask(domain.ContentTypeStory, 4)
	err := h.HandleIndex(ctx, task)
	assert.ErrorIs(t, err, asynq.SkipRetry)

	// transient errors are retried
	idx.On("RemoveContent", ctx, domain.ContentTypeStory, uint64(5)).Return(errors.New("es down")).Once()
	task, _ = NewRemoveTask(domain.ContentTypeStory, 5)
	err = h.HandleRemove(ctx, task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	idx.AssertExpectations(t)
}

func TestHandlers_EmailAndBadPayload(t *testing.T) {
	mailer := new(mockMailer)
	h := &Handlers{Mailer: mailer}
	ctx := context.Background()

	mailer.On("Send", ctx, "a@example.com", "Hi", "Body").Return(nil).Once()
	task, _ := NewEmailTask(EmailPayload{To: "a@example.com", Subject: "Hi", Body: "Body"})
	assert.NoError(t, h.HandleEmail(ctx, task))

	bad := asynq.NewTask(TypeEmailSend, []byte("{not json"))
	assert.ErrorIs(t, h.HandleEmail(ctx, bad), asynq.SkipRetry)

	noRecipient, _ := NewEmailTask(EmailPayload{Subject: "x"})
	assert.ErrorIs(t, h.HandleEmail(ctx, noRecipient), asynq.SkipRetry)

	mailer.AssertExpectations(t)
}
