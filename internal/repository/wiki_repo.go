package repository

import (
	"context"
	"errors"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WikiRepository adds hierarchy queries to the wiki content storage
type WikiRepository interface {
	ContentRepository[domain.WikiPage, *domain.WikiPage]

	FindNode(ctx context.Context, id uint64) (*domain.WikiPage, error)
	FindChildren(ctx context.Context, parentID uint64) ([]*domain.WikiPage, error)
	CountChildren(ctx context.Context, id uint64) (int64, error)
	FindPublishedNodes(ctx context.Context) ([]*domain.WikiPage, error)
}

type wikiRepository struct {
	ContentRepository[domain.WikiPage, *domain.WikiPage]
	db *gorm.DB
}

// NewWikiRepository creates a WikiRepository
func NewWikiRepository(db *gorm.DB) WikiRepository {
	return &wikiRepository{
		ContentRepository: NewContentRepository[domain.WikiPage](db),
		db:                db,
	}
}

// Update saves a page; a parent change re-checks the ancestry under row locks in the same transaction
func (r *wikiRepository) Update(ctx context.Context, item *domain.WikiPage, categoryIDs, tagIDs *[]uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current domain.WikiPage
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id, parent_id").
			Where("id = ?", item.ID).
			Take(&current).Error
		if err != nil {
			return translate(err)
		}
		if item.ParentID != nil && !sameParent(current.ParentID, item.ParentID) {
			if err := checkAncestry(tx, item.ID, *item.ParentID); err != nil {
				return err
			}
		}
		return NewContentRepository[domain.WikiPage](tx).Update(ctx, item, categoryIDs, tagIDs)
	})
}

func sameParent(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// checkAncestry walks parent pointers upward from parentID, locking each row.
// Reaching pageID (or an existing loop) means the move would create a cycle.
func checkAncestry(tx *gorm.DB, pageID, parentID uint64) error {
	visited := make(map[uint64]struct{})
	current := parentID
	for {
		if current == pageID {
			return common.ErrCircularReference
		}
		if _, seen := visited[current]; seen {
			return common.ErrCircularReference
		}
		visited[current] = struct{}{}

		var node domain.WikiPage
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id, parent_id").
			Where("id = ?", current).
			Take(&node).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if current == parentID {
				return common.ErrParentNotFound
			}
			return nil
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

// FindNode loads only the columns needed for hierarchy walks
func (r *wikiRepository) FindNode(ctx context.Context, id uint64) (*domain.WikiPage, error) {
	var page domain.WikiPage
	err := r.db.WithContext(ctx).
		Select("id, title, slug, status, parent_id").
		Where("id = ?", id).
		Take(&page).Error
	if err != nil {
		return nil, translate(err)
	}
	return &page, nil
}

func (r *wikiRepository) FindChildren(ctx context.Context, parentID uint64) ([]*domain.WikiPage, error) {
	var pages []*domain.WikiPage
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("title ASC").
		Find(&pages).Error
	return pages, err
}

func (r *wikiRepository) CountChildren(ctx context.Context, id uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WikiPage{}).
		Where("parent_id = ?", id).
		Count(&count).Error
	return count, err
}

// FindPublishedNodes returns every published page ordered by title, for tree building
func (r *wikiRepository) FindPublishedNodes(ctx context.Context) ([]*domain.WikiPage, error) {
	var pages []*domain.WikiPage
	err := r.db.WithContext(ctx).
		Select("id, title, slug, parent_id").
		Where("status = ?", domain.StatusPublished).
		Order("title ASC").
		Find(&pages).Error
	return pages, err
}
