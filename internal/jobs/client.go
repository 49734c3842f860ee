package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/domain"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// Enqueuer is what the services use to schedule background work
type Enqueuer interface {
	EnqueueEmail(ctx context.Context, p EmailPayload) error
	EnqueueImageProcess(ctx context.Context, galleryItemID uint64) error
	EnqueueIndex(ctx context.Context, ct domain.ContentType, id uint64) error
	EnqueueRemove(ctx context.Context, ct domain.ContentType, id uint64) error
	EnqueuePublish(ctx context.Context, ct domain.ContentType, id uint64, at time.Time) error
}

// Client enqueues tasks into Redis through asynq
type Client struct {
	client   *asynq.Client
	maxRetry int
}

// NewClient creates an asynq-backed Enqueuer; attempts is the total number of tries per job
func NewClient(opt asynq.RedisConnOpt, attempts int) *Client {
	return &Client{
		client:   asynq.NewClient(opt),
		maxRetry: MaxRetry(attempts),
	}
}

// Close releases the Redis connection
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) enqueue(ctx context.Context, task *asynq.Task, err error) error {
	if err != nil {
		return err
	}
	info, err := c.client.EnqueueContext(ctx, task, asynq.MaxRetry(c.maxRetry))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// same task already queued
		jobsEnqueuedTotal.WithLabelValues(task.Type(), "duplicate").Inc()
		return nil
	}
	if err != nil {
		jobsEnqueuedTotal.WithLabelValues(task.Type(), "error").Inc()
		return err
	}
	jobsEnqueuedTotal.WithLabelValues(task.Type(), "ok").Inc()
	pkglogger.GetLogger().Debug().
		Str("type", task.Type()).
		Str("id", info.ID).
		Str("queue", info.Queue).
		Msg("job enqueued")
	return nil
}

func (c *Client) EnqueueEmail(ctx context.Context, p EmailPayload) error {
	task, err := NewEmailTask(p)
	return c.enqueue(ctx, task, err)
}

func (c *Client) EnqueueImageProcess(ctx context.Context, galleryItemID uint64) error {
	task, err := NewImageTask(galleryItemID)
	return c.enqueue(ctx, task, err)
}

func (c *Client) EnqueueIndex(ctx context.Context, ct domain.ContentType, id uint64) error {
	task, err := NewIndexTask(ct, id)
	return c.enqueue(ctx, task, err)
}

func (c *Client) EnqueueRemove(ctx context.Context, ct domain.ContentType, id uint64) error {
	task, err := NewRemoveTask(ct, id)
	return c.enqueue(ctx, task, err)
}

func (c *Client) EnqueuePublish(ctx context.Context, ct domain.ContentType, id uint64, at time.Time) error {
	task, err := NewPublishTask(ct, id, at)
	return c.enqueue(ctx, task, err)
}

// Nop drops every job; used when the queue is disabled
type Nop struct{}

func (Nop) EnqueueEmail(context.Context, EmailPayload) error { return nil }

func (Nop) EnqueueImageProcess(context.Context, uint64) error { return nil }

func (Nop) EnqueueIndex(context.Context, domain.ContentType, uint64) error { return nil }

func (Nop) EnqueueRemove(context.Context, domain.ContentType, uint64) error { return nil }

func (Nop) EnqueuePublish(context.Context, domain.ContentType, uint64, time.Time) error { return nil }
