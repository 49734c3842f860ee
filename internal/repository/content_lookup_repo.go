package repository

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentLookup resolves polymorphic (contentType, contentId) references
type ContentLookup interface {
	FindRef(ctx context.Context, ct domain.ContentType, id uint64) (*domain.ContentRef, error)
	ApplySnapshot(ctx context.Context, ct domain.ContentType, id uint64, title, content, excerpt string) error
	CountByAuthor(ctx context.Context, authorID uint64, publishedOnly bool) (map[domain.ContentType]int64, error)
}

type contentLookup struct {
	db *gorm.DB
}

// NewContentLookup creates a ContentLookup
func NewContentLookup(db *gorm.DB) ContentLookup {
	return &contentLookup{db: db}
}

func tableFor(ct domain.ContentType) (string, error) {
	t, ok := tablesByType[ct]
	if !ok {
		return "", common.ErrInvalidType
	}
	return t.table, nil
}

func (r *contentLookup) FindRef(ctx context.Context, ct domain.ContentType, id uint64) (*domain.ContentRef, error) {
	table, err := tableFor(ct)
	if err != nil {
		return nil, err
	}
	var ref domain.ContentRef
	err = r.db.WithContext(ctx).Table(table).
		Select("id, title, slug, status, author_id, created_by_id").
		Where("id = ?", id).
		Take(&ref).Error
	if err != nil {
		return nil, translate(err)
	}
	ref.Type = ct
	return &ref, nil
}

// ApplySnapshot writes versioned fields back onto the content row; the slug is kept
func (r *contentLookup) ApplySnapshot(ctx context.Context, ct domain.ContentType, id uint64, title, content, excerpt string) error {
	table, err := tableFor(ct)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"excerpt":    excerpt,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *contentLookup) CountByAuthor(ctx context.Context, authorID uint64, publishedOnly bool) (map[domain.ContentType]int64, error) {
	counts := make(map[domain.ContentType]int64, len(domain.ContentTypes))
	for _, ct := range domain.ContentTypes {
		q := r.db.WithContext(ctx).Table(tablesByType[ct].table).Where("author_id = ?", authorID)
		if publishedOnly {
			q = q.Where("status = ?", domain.StatusPublished)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return nil, err
		}
		counts[ct] = n
	}
	return counts, nil
}
