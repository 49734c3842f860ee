// Package jobs defines the background task types, their producer and the worker handlers.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/mediaportal/portal-backend/internal/domain"
)

// Task type names
const (
	TypeEmailSend      = "email:send"
	TypeImageProcess   = "image:process"
	TypeSearchIndex    = "search:index"
	TypeSearchRemove   = "search:remove"
	TypeContentPublish = "content:publish"
)

// Queue names and their priority weights
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// QueueWeights is passed to the asynq server
var QueueWeights = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
	QueueLow:      1,
}

// EmailPayload is the payload of email:send
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ImagePayload is the payload of image:process
type ImagePayload struct {
	GalleryItemID uint64 `json:"gallery_item_id"`
}

// ContentPayload is the payload of search:index, search:remove and content:publish
type ContentPayload struct {
	ContentType domain.ContentType `json:"content_type"`
	ContentID   uint64             `json:"content_id"`
}

func newTask(typeName string, payload interface{}, opts ...asynq.Option) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", typeName, err)
	}
	return asynq.NewTask(typeName, data, opts...), nil
}

// NewEmailTask builds an email:send task
func NewEmailTask(p EmailPayload) (*asynq.Task, error) {
	return newTask(TypeEmailSend, p, asynq.Queue(QueueDefault))
}

// NewImageTask builds an image:process task
func NewImageTask(galleryItemID uint64) (*asynq.Task, error) {
	return newTask(TypeImageProcess, ImagePayload{GalleryItemID: galleryItemID},
		asynq.Queue(QueueDefault), asynq.Timeout(2*time.Minute))
}

// NewIndexTask builds a search:index task
func NewIndexTask(ct domain.ContentType, id uint64) (*asynq.Task, error) {
	return newTask(TypeSearchIndex, ContentPayload{ContentType: ct, ContentID: id}, asynq.Queue(QueueLow))
}

// NewRemoveTask builds a search:remove task
func NewRemoveTask(ct domain.ContentType, id uint64) (*asynq.Task, error) {
	return newTask(TypeSearchRemove, ContentPayload{ContentType: ct, ContentID: id}, asynq.Queue(QueueLow))
}

// NewPublishTask builds a content:publish task due at the given time.
// The task id includes the due time so a rescheduled item gets a fresh task.
func NewPublishTask(ct domain.ContentType, id uint64, at time.Time) (*asynq.Task, error) {
	taskID := fmt.Sprintf("publish:%s:%d:%d", ct, id, at.Unix())
	return newTask(TypeContentPublish, ContentPayload{ContentType: ct, ContentID: id},
		asynq.Queue(QueueCritical), asynq.ProcessAt(at), asynq.TaskID(taskID))
}

func decode(t *asynq.Task, v interface{}) error {
	if err := json.Unmarshal(t.Payload(), v); err != nil {
		// malformed payloads never succeed on retry
		return fmt.Errorf("decode %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
