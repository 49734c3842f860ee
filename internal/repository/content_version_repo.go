package repository

import (
	"context"
	"errors"

	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentVersionRepository stores the append-only snapshot log
type ContentVersionRepository interface {
	Create(ctx context.Context, version *domain.ContentVersion) error
	FindByID(ctx context.Context, id uint64) (*domain.ContentVersion, error)
	FindLatest(ctx context.Context, ct domain.ContentType, contentID uint64) (*domain.ContentVersion, error)
	List(ctx context.Context, ct domain.ContentType, contentID uint64, page, limit int) ([]*domain.ContentVersion, int64, error)
	Prune(ctx context.Context, ct domain.ContentType, contentID uint64, keepCount int, autosaveOnly bool) (int64, error)
	ContentKeys(ctx context.Context) ([]ContentKey, error)
}

// ContentKey identifies one versioned content item
type ContentKey struct {
	ContentType domain.ContentType
	ContentID   uint64
}

type contentVersionRepository struct {
	db *gorm.DB
}

// NewContentVersionRepository creates a new ContentVersionRepository
func NewContentVersionRepository(db *gorm.DB) ContentVersionRepository {
	return &contentVersionRepository{db: db}
}

// Create assigns the next version number and inserts in one transaction
func (r *contentVersionRepository) Create(ctx context.Context, version *domain.ContentVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxVersion *int
		err := tx.Model(&domain.ContentVersion{}).
			Where("content_type = ? AND content_id = ?", version.ContentType, version.ContentID).
			Select("MAX(version)").
			Scan(&maxVersion).Error
		if err != nil {
			return err
		}
		version.Version = 1
		if maxVersion != nil {
			version.Version = *maxVersion + 1
		}
		return translate(tx.Create(version).Error)
	})
}

func (r *contentVersionRepository) FindByID(ctx context.Context, id uint64) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&version).Error; err != nil {
		return nil, translate(err)
	}
	return &version, nil
}

// FindLatest returns nil, nil when the content has no versions yet
func (r *contentVersionRepository) FindLatest(ctx context.Context, ct domain.ContentType, contentID uint64) (*domain.ContentVersion, error) {
	var version domain.ContentVersion
	err := r.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", ct, contentID).
		Order("version DESC").
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *contentVersionRepository) List(ctx context.Context, ct domain.ContentType, contentID uint64, page, limit int) ([]*domain.ContentVersion, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ContentVersion{}).
		Where("content_type = ? AND content_id = ?", ct, contentID).
		Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var versions []*domain.ContentVersion
	err := q.Order("version DESC").Offset((page - 1) * limit).Limit(limit).Find(&versions).Error
	return versions, total, err
}

// Prune deletes all but the keepCount newest versions (optionally only autosaves)
func (r *contentVersionRepository) Prune(ctx context.Context, ct domain.ContentType, contentID uint64, keepCount int, autosaveOnly bool) (int64, error) {
	if keepCount < 0 {
		keepCount = 0
	}
	scope := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("content_type = ? AND content_id = ?", ct, contentID)
		if autosaveOnly {
			tx = tx.Where("is_autosave = ?", true)
		}
		return tx
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Scopes(scope)
		if keepCount > 0 {
			// version of the oldest row that survives
			var threshold []int
			err := tx.Model(&domain.ContentVersion{}).Scopes(scope).
				Order("version DESC").
				Offset(keepCount-1).
				Limit(1).
				Pluck("version", &threshold).Error
			if err != nil {
				return err
			}
			if len(threshold) == 0 {
				return nil
			}
			del = del.Where("version < ?", threshold[0])
		}
		res := del.Delete(&domain.ContentVersion{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

// ContentKeys lists every content item that has at least one version
func (r *contentVersionRepository) ContentKeys(ctx context.Context) ([]ContentKey, error) {
	var keys []ContentKey
	err := r.db.WithContext(ctx).Model(&domain.ContentVersion{}).
		Select("DISTINCT content_type, content_id").
		Order("content_type, content_id").
		Scan(&keys).Error
	return keys, err
}
