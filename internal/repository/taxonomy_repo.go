package repository

import (
	"context"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// TaxonomyRepository stores categories and tags
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id uint64) error
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	CreateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id uint64) error
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new TaxonomyRepository
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uint64) error {
	return r.deleteWithJoins(ctx, &domain.Category{}, id, "category_id", "categories")
}

func (r *taxonomyRepository) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *taxonomyRepository) CreateTag(ctx context.Context, tag *domain.Tag) error {
	return translate(r.db.WithContext(ctx).Create(tag).Error)
}

func (r *taxonomyRepository) DeleteTag(ctx context.Context, id uint64) error {
	return r.deleteWithJoins(ctx, &domain.Tag{}, id, "tag_id", "tags")
}

// deleteWithJoins removes the row and its links from every content join table
func (r *taxonomyRepository) deleteWithJoins(ctx context.Context, model interface{}, id uint64, column, kind string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ct := range domain.ContentTypes {
			t := tablesByType[ct]
			join := t.categoryJoin
			if kind == "tags" {
				join = t.tagJoin
			}
			if err := tx.Exec("DELETE FROM "+join+" WHERE "+column+" = ?", id).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}
