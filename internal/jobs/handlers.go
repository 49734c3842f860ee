package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
)

// Mailer delivers a single email
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ImageProcessor builds thumbnails for an uploaded gallery item
type ImageProcessor interface {
	ProcessImage(ctx context.Context, galleryItemID uint64) error
}

// SearchIndexer keeps the search index in sync with the database
type SearchIndexer interface {
	IndexContent(ctx context.Context, ct domain.ContentType, id uint64) error
	RemoveContent(ctx context.Context, ct domain.ContentType, id uint64) error
}

// Publisher publishes scheduled content
type Publisher interface {
	PublishScheduled(ctx context.Context, ct domain.ContentType, id uint64) error
}

// Handlers processes every task type
type Handlers struct {
	Mailer    Mailer
	Images    ImageProcessor
	Indexer   SearchIndexer
	Publisher Publisher
}

// Register mounts the handlers on a mux, wrapped by Instrument
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.Use(Instrument)
	mux.HandleFunc(TypeEmailSend, h.HandleEmail)
	mux.HandleFunc(TypeImageProcess, h.HandleImage)
	mux.HandleFunc(TypeSearchIndex, h.HandleIndex)
	mux.HandleFunc(TypeSearchRemove, h.HandleRemove)
	mux.HandleFunc(TypeContentPublish, h.HandlePublish)
}

// settle stops retries for rows that no longer exist and inputs that can never succeed
func settle(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrInvalidType) ||
		errors.Is(err, common.ErrInvalidFileType) || errors.Is(err, common.ErrStorageDisabled) {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return err
}

func (h *Handlers) HandleEmail(ctx context.Context, t *asynq.Task) error {
	var p EmailPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	if p.To == "" {
		return fmt.Errorf("email without recipient: %w", asynq.SkipRetry)
	}
	return h.Mailer.Send(ctx, p.To, p.Subject, p.Body)
}

func (h *Handlers) HandleImage(ctx context.Context, t *asynq.Task) error {
	var p ImagePayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return settle(h.Images.ProcessImage(ctx, p.GalleryItemID))
}

func (h *Handlers) HandleIndex(ctx context.Context, t *asynq.Task) error {
	var p ContentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return settle(h.Indexer.IndexContent(ctx, p.ContentType, p.ContentID))
}

func (h *Handlers) HandleRemove(ctx context.Context, t *asynq.Task) error {
	var p ContentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return settle(h.Indexer.RemoveContent(ctx, p.ContentType, p.ContentID))
}

func (h *Handlers) HandlePublish(ctx context.Context, t *asynq.Task) error {
	var p ContentPayload
	if err := decode(t, &p); err != nil {
		return err
	}
	return settle(h.Publisher.PublishScheduled(ctx, p.ContentType, p.ContentID))
}
