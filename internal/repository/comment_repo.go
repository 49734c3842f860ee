package repository

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// CommentRepository 댓글 저장소 인터페이스
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Comment, error)
	ListByContent(ctx context.Context, ct domain.ContentType, contentID uint64, includeHidden bool) ([]*domain.Comment, error)
	CountByContent(ctx context.Context, ct domain.ContentType, contentID uint64) (int64, error)
	UpdateStatus(ctx context.Context, id uint64, status domain.CommentStatus) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Update("body", comment.Body).Error
}

// Delete removes the comment and all of its replies
func (r *commentRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint64{id}
		frontier := []uint64{id}
		for len(frontier) > 0 {
			var children []uint64
			if err := tx.Model(&domain.Comment{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		res := tx.Where("id IN ?", ids).Delete(&domain.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByContent(ctx context.Context, ct domain.ContentType, contentID uint64, includeHidden bool) ([]*domain.Comment, error) {
	q := r.db.WithContext(ctx).Preload("User").
		Where("content_type = ? AND content_id = ?", ct, contentID)
	if !includeHidden {
		q = q.Where("status = ?", domain.CommentApproved)
	}
	var comments []*domain.Comment
	err := q.Order("created_at ASC, id ASC").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) CountByContent(ctx context.Context, ct domain.ContentType, contentID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("content_type = ? AND content_id = ? AND status = ?", ct, contentID, domain.CommentApproved).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id uint64, status domain.CommentStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Comment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
