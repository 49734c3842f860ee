package repository

import (
	"context"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// AuthorRepository 작성자 저장소 인터페이스
type AuthorRepository interface {
	Create(ctx context.Context, author *domain.Author) error
	Update(ctx context.Context, author *domain.Author) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Author, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Author, error)
	FindByUserID(ctx context.Context, userID uint64) (*domain.Author, error)
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)
	List(ctx context.Context, search string, page, limit int) ([]*domain.Author, int64, error)
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new AuthorRepository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *domain.Author) error {
	return authorError(r.db.WithContext(ctx).Create(author).Error)
}

func (r *authorRepository) Update(ctx context.Context, author *domain.Author) error {
	return authorError(r.db.WithContext(ctx).Save(author).Error)
}

func (r *authorRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Author{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *authorRepository) FindByID(ctx context.Context, id uint64) (*domain.Author, error) {
	var author domain.Author
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&author).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) FindBySlug(ctx context.Context, slug string) (*domain.Author, error) {
	var author domain.Author
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&author).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) FindByUserID(ctx context.Context, userID uint64) (*domain.Author, error) {
	var author domain.Author
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&author).Error; err != nil {
		return nil, translate(err)
	}
	return &author, nil
}

func (r *authorRepository) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	return slugTaken(r.db.WithContext(ctx), "authors", slug, excludeID)
}

func (r *authorRepository) List(ctx context.Context, search string, page, limit int) ([]*domain.Author, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Author{})
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var authors []*domain.Author
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&authors).Error
	return authors, total, err
}

// authorError: the only unique columns are slug and user_id
func authorError(err error) error {
	if translate(err) == common.ErrConflict {
		return common.ErrSlugConflict
	}
	return err
}
