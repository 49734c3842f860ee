package service

import (
	"context"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// NotificationPusher delivers a stored notification to the user's live connections
type NotificationPusher interface {
	Push(ctx context.Context, n *domain.Notification) error
}

// NotificationService handles notification business logic
type NotificationService struct {
	repo   repository.NotificationRepository
	pusher NotificationPusher
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService; pusher may be nil
func NewNotificationService(repo repository.NotificationRepository, pusher NotificationPusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, now: time.Now}
}

// Notify stores a notification and pushes it in real time; self-notifications are dropped
func (s *NotificationService) Notify(ctx context.Context, n *domain.Notification) error {
	if n.UserID == 0 || (n.ActorID != nil && *n.ActorID == n.UserID) {
		return nil
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.pusher != nil {
		if err := s.pusher.Push(ctx, n); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", n.UserID).Msg("notification push failed")
		}
	}
	return nil
}

// GetUnreadCount returns the unread notification count for a user
func (s *NotificationService) GetUnreadCount(ctx context.Context, actor *Actor) (*domain.UnreadCountResponse, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	count, err := s.repo.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.UnreadCountResponse{Unread: count}, nil
}

// GetList returns paginated notifications for a user
func (s *NotificationService) GetList(ctx context.Context, actor *Actor, unreadOnly bool, page, limit int) ([]*domain.Notification, *common.Meta, error) {
	if actor == nil {
		return nil, nil, common.ErrUnauthorized
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > ginutil.MaxPageSize {
		limit = ginutil.DefaultPageSize
	}
	items, total, err := s.repo.List(ctx, actor.UserID, unreadOnly, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, limit, total), nil
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, actor *Actor, id uint64) error {
	if actor == nil {
		return common.ErrUnauthorized
	}
	return s.repo.MarkAsRead(ctx, actor.UserID, id, s.now())
}

// MarkAllAsRead marks all notifications as read and returns how many changed
func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor *Actor) (int64, error) {
	if actor == nil {
		return 0, common.ErrUnauthorized
	}
	return s.repo.MarkAllAsRead(ctx, actor.UserID, s.now())
}

// Delete deletes one of the user's notifications
func (s *NotificationService) Delete(ctx context.Context, actor *Actor, id uint64) error {
	if actor == nil {
		return common.ErrUnauthorized
	}
	return s.repo.Delete(ctx, actor.UserID, id)
}
