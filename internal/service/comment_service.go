package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/internal/repository"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// Notifier receives comment events
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification) error
}

// CommentService manages polymorphic, threaded comments
type CommentService struct {
	repo     repository.CommentRepository
	lookup   repository.ContentLookup
	notifier Notifier
}

// NewCommentService creates a new CommentService; notifier may be nil
func NewCommentService(repo repository.CommentRepository, lookup repository.ContentLookup, notifier Notifier) *CommentService {
	return &CommentService{repo: repo, lookup: lookup, notifier: notifier}
}

// visibleRef loads the commented item; drafts are only visible to their creator and staff
func (s *CommentService) visibleRef(ctx context.Context, viewer *Actor, ct domain.ContentType, id uint64) (*domain.ContentRef, error) {
	ref, err := s.lookup.FindRef(ctx, ct, id)
	if err != nil {
		return nil, err
	}
	if ref.Status != domain.StatusPublished && !viewer.CanModify(ref.CreatedByID) {
		return nil, common.ErrNotFound
	}
	return ref, nil
}

// Create adds a comment or a reply; a reply's parent must belong to the same content
func (s *CommentService) Create(ctx context.Context, actor *Actor, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", common.ErrInvalidInput)
	}
	if err := common.ValidateUserLinks(body, actor.IsStaff()); err != nil {
		return nil, err
	}
	ref, err := s.visibleRef(ctx, actor, req.ContentType, req.ContentID)
	if err != nil {
		return nil, err
	}

	var parent *domain.Comment
	if req.ParentID != nil {
		parent, err = s.repo.FindByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ContentType != req.ContentType || parent.ContentID != req.ContentID {
			return nil, common.ErrInvalidParentComment
		}
	}

	comment := &domain.Comment{
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		ParentID:    req.ParentID,
		UserID:      actor.UserID,
		Body:        body,
		Status:      domain.CommentApproved,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notify(ctx, actor, ref, comment, parent)
	return comment, nil
}

// notify tells the content creator and, for replies, the parent comment's author
func (s *CommentService) notify(ctx context.Context, actor *Actor, ref *domain.ContentRef, comment, parent *domain.Comment) {
	if s.notifier == nil {
		return
	}
	link := fmt.Sprintf("%s/%s#comment-%d", ref.Type.Path(), ref.Slug, comment.ID)
	actorID := actor.UserID

	// 본인 글/댓글에 단 댓글은 알리지 않는다
	notified := map[uint64]bool{actorID: true}
	send := func(userID uint64, kind, title string) {
		if userID == 0 || notified[userID] {
			return
		}
		notified[userID] = true
		err := s.notifier.Notify(ctx, &domain.Notification{
			UserID:      userID,
			Type:        kind,
			Title:       title,
			Message:     excerptRunes(comment.Body, 100),
			Link:        link,
			ActorID:     &actorID,
			ContentType: ref.Type,
			ContentID:   ref.ID,
		})
		if err != nil {
			pkglogger.GetLogger().Warn().Err(err).Uint64("user_id", userID).Msg("comment notification failed")
		}
	}

	if parent != nil {
		send(parent.UserID, domain.NotificationReply, fmt.Sprintf("%s replied to your comment", actor.Username))
	}
	send(ref.CreatedByID, domain.NotificationComment, fmt.Sprintf("%s commented on %q", actor.Username, ref.Title))
}

func excerptRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Update changes the body of the actor's own comment
func (s *CommentService) Update(ctx context.Context, actor *Actor, id uint64, req *domain.UpdateCommentRequest) (*domain.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || comment.UserID != actor.UserID {
		return nil, common.ErrForbidden
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", common.ErrInvalidInput)
	}
	if err := common.ValidateUserLinks(body, actor.IsStaff()); err != nil {
		return nil, err
	}
	comment.Body = body
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and its replies; owner or staff only
func (s *CommentService) Delete(ctx context.Context, actor *Actor, id uint64) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(comment.UserID) {
		return common.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Moderate changes the status of a comment; staff only
func (s *CommentService) Moderate(ctx context.Context, actor *Actor, id uint64, status domain.CommentStatus) error {
	if !actor.IsStaff() {
		return common.ErrForbidden
	}
	switch status {
	case domain.CommentApproved, domain.CommentPending, domain.CommentHidden:
	default:
		return common.ErrInvalidStatus
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// ListThreaded returns the comments of an item as a reply tree; staff also see hidden ones
func (s *CommentService) ListThreaded(ctx context.Context, viewer *Actor, ct domain.ContentType, id uint64) ([]*domain.Comment, error) {
	if !ct.Valid() {
		return nil, common.ErrInvalidType
	}
	if _, err := s.visibleRef(ctx, viewer, ct, id); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListByContent(ctx, ct, id, viewer.IsStaff())
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree nests replies under their parents, keeping input order.
// Replies whose parent is not in the list are promoted to the top level.
func BuildCommentTree(comments []*domain.Comment) []*domain.Comment {
	byID := make(map[uint64]*domain.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}
	roots := make([]*domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok && parent != c {
				parent.Replies = append(parent.Replies, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
