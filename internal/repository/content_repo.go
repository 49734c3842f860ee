package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentModel is satisfied by pointers to the content models (*domain.Article, ...)
type ContentModel[T any] interface {
	*T
	domain.Content
}

// ContentRepository is the storage shared by every content type
type ContentRepository[T any, PT ContentModel[T]] interface {
	Create(ctx context.Context, item PT, categoryIDs, tagIDs []uint64) error
	Update(ctx context.Context, item PT, categoryIDs, tagIDs *[]uint64) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (PT, error)
	FindBySlug(ctx context.Context, slug string) (PT, error)
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)
	List(ctx context.Context, filter domain.ContentFilter) ([]PT, int64, error)
	IncrementViewCount(ctx context.Context, id uint64) error
	UpdateColumns(ctx context.Context, id uint64, fields map[string]interface{}) error
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]PT, error)
	Publish(ctx context.Context, id uint64, now time.Time) (bool, error)
	EachBatch(ctx context.Context, size int, fn func([]PT) error) error
}

type contentTables struct {
	table        string
	categoryJoin string
	tagJoin      string
	foreignKey   string
}

var tablesByType = map[domain.ContentType]contentTables{
	domain.ContentTypeArticle:     {"articles", "article_categories", "article_tags", "article_id"},
	domain.ContentTypeBlogPost:    {"blog_posts", "blog_post_categories", "blog_post_tags", "blog_post_id"},
	domain.ContentTypeWikiPage:    {"wiki_pages", "wiki_page_categories", "wiki_page_tags", "wiki_page_id"},
	domain.ContentTypeGalleryItem: {"gallery_items", "gallery_item_categories", "gallery_item_tags", "gallery_item_id"},
	domain.ContentTypeStory:       {"stories", "story_categories", "story_tags", "story_id"},
}

// 정렬 화이트리스트
var contentSorts = map[string]string{
	"":        "COALESCE(published_at, created_at) DESC, id DESC",
	"newest":  "COALESCE(published_at, created_at) DESC, id DESC",
	"oldest":  "COALESCE(published_at, created_at) ASC, id ASC",
	"popular": "view_count DESC, id DESC",
	"title":   "title ASC, id ASC",
	"chapter": "chapter ASC, id ASC",
}

var contentPreloads = []string{"Author", "Categories", "Tags"}

type contentRepository[T any, PT ContentModel[T]] struct {
	db     *gorm.DB
	tables contentTables
}

// NewContentRepository creates the repository for one content model
func NewContentRepository[T any, PT ContentModel[T]](db *gorm.DB) ContentRepository[T, PT] {
	ct := PT(new(T)).ContentType()
	return &contentRepository[T, PT]{db: db, tables: tablesByType[ct]}
}

func (r *contentRepository[T, PT]) withPreloads(tx *gorm.DB) *gorm.DB {
	for _, p := range contentPreloads {
		tx = tx.Preload(p)
	}
	return tx
}

func (r *contentRepository[T, PT]) Create(ctx context.Context, item PT, categoryIDs, tagIDs []uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := slugTaken(tx, r.tables.table, item.Base().Slug, 0)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrSlugConflict
		}
		if err := tx.Omit(clause.Associations).Create(item).Error; err != nil {
			return err
		}
		return replaceTaxonomy(tx, item, &categoryIDs, &tagIDs)
	})
	return slugError(err)
}

func (r *contentRepository[T, PT]) Update(ctx context.Context, item PT, categoryIDs, tagIDs *[]uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := item.Base()
		taken, err := slugTaken(tx, r.tables.table, base.Slug, base.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrSlugConflict
		}
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}
		return replaceTaxonomy(tx, item, categoryIDs, tagIDs)
	})
	return slugError(err)
}

func (r *contentRepository[T, PT]) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := PT(new(T))
		item.Base().ID = id
		if err := tx.Model(item).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := tx.Model(item).Association("Tags").Clear(); err != nil {
			return err
		}
		res := tx.Delete(item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

func (r *contentRepository[T, PT]) FindByID(ctx context.Context, id uint64) (PT, error) {
	item := PT(new(T))
	if err := r.withPreloads(r.db.WithContext(ctx)).Where("id = ?", id).First(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *contentRepository[T, PT]) FindBySlug(ctx context.Context, slug string) (PT, error) {
	item := PT(new(T))
	if err := r.withPreloads(r.db.WithContext(ctx)).Where("slug = ?", slug).First(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *contentRepository[T, PT]) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	return slugTaken(r.db.WithContext(ctx), r.tables.table, slug, excludeID)
}

func (r *contentRepository[T, PT]) List(ctx context.Context, filter domain.ContentFilter) ([]PT, int64, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(PT(new(T))), filter).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := contentSorts[filter.Sort]
	if !ok || (filter.Sort == "chapter" && r.tables.table != "stories") {
		order = contentSorts[""]
	}

	var items []PT
	err := r.withPreloads(q).
		Order(order).
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentRepository[T, PT]) applyFilter(q *gorm.DB, f domain.ContentFilter) *gorm.DB {
	t := r.tables
	if f.Status != "" {
		q = q.Where(t.table+".status = ?", f.Status)
	}
	if f.AuthorID > 0 {
		q = q.Where(t.table+".author_id = ?", f.AuthorID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER("+t.table+".title) LIKE ? OR LOWER("+t.table+".excerpt) LIKE ?)", like, like)
	}
	if f.CategorySlug != "" {
		q = q.Where(t.table+".id IN (?)", r.db.Table(t.categoryJoin+" AS j").
			Select("j."+t.foreignKey).
			Joins("JOIN categories c ON c.id = j.category_id").
			Where("c.slug = ?", f.CategorySlug))
	}
	if f.TagSlug != "" {
		q = q.Where(t.table+".id IN (?)", r.db.Table(t.tagJoin+" AS j").
			Select("j."+t.foreignKey).
			Joins("JOIN tags tg ON tg.id = j.tag_id").
			Where("tg.slug = ?", f.TagSlug))
	}
	if f.Featured != nil {
		q = q.Where(t.table+".featured = ?", *f.Featured)
	}
	if f.Series != "" {
		q = q.Where(t.table+".series = ?", f.Series)
	}
	if f.Genre != "" {
		q = q.Where(t.table+".genre = ?", f.Genre)
	}
	return q
}

func (r *contentRepository[T, PT]) IncrementViewCount(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Model(PT(new(T))).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// UpdateColumns writes derived columns (thumbnails, counters) without touching the rest of the row
func (r *contentRepository[T, PT]) UpdateColumns(ctx context.Context, id uint64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(PT(new(T))).Where("id = ?", id).UpdateColumns(fields).Error
}

func (r *contentRepository[T, PT]) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]PT, error) {
	var items []PT
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", domain.StatusDraft, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Publish flips a non-published row to PUBLISHED; false means it was already published
func (r *contentRepository[T, PT]) Publish(ctx context.Context, id uint64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(PT(new(T))).
		Where("id = ? AND status <> ?", id, domain.StatusPublished).
		Updates(map[string]interface{}{
			"status":       domain.StatusPublished,
			"published_at": gorm.Expr("COALESCE(published_at, ?)", now),
			"scheduled_at": nil,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *contentRepository[T, PT]) EachBatch(ctx context.Context, size int, fn func([]PT) error) error {
	var batch []PT
	return r.withPreloads(r.db.WithContext(ctx)).
		FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}

func slugTaken(tx *gorm.DB, table, slug string, excludeID uint64) (bool, error) {
	q := tx.Table(table).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// slugError turns a unique-index race on insert into a slug conflict
func slugError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return common.ErrSlugConflict
	}
	return err
}

// replaceTaxonomy sets categories/tags; a nil pointer leaves the association untouched
func replaceTaxonomy(tx *gorm.DB, item interface{}, categoryIDs, tagIDs *[]uint64) error {
	if categoryIDs != nil {
		var cats []domain.Category
		if len(*categoryIDs) > 0 {
			if err := tx.Where("id IN ?", *categoryIDs).Find(&cats).Error; err != nil {
				return err
			}
			if len(cats) != countUnique(*categoryIDs) {
				return fmt.Errorf("%w: unknown category id", common.ErrInvalidInput)
			}
		}
		if err := replaceAssociation(tx, item, "Categories", cats); err != nil {
			return err
		}
	}
	if tagIDs != nil {
		var tags []domain.Tag
		if len(*tagIDs) > 0 {
			if err := tx.Where("id IN ?", *tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != countUnique(*tagIDs) {
				return fmt.Errorf("%w: unknown tag id", common.ErrInvalidInput)
			}
		}
		if err := replaceAssociation(tx, item, "Tags", tags); err != nil {
			return err
		}
	}
	return nil
}

func replaceAssociation[V any](tx *gorm.DB, item interface{}, name string, values []V) error {
	assoc := tx.Model(item).Association(name)
	if len(values) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(values)
}

func countUnique(ids []uint64) int {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
