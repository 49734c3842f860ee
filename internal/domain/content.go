package domain

import "time"

// ContentType discriminates polymorphic comments, ratings and versions
type ContentType string

const (
	ContentTypeArticle     ContentType = "article"
	ContentTypeBlogPost    ContentType = "blogPost"
	ContentTypeWikiPage    ContentType = "wikiPage"
	ContentTypeGalleryItem ContentType = "galleryItem"
	ContentTypeStory       ContentType = "story"
)

// ContentTypes lists every content type in a stable order
var ContentTypes = []ContentType{
	ContentTypeArticle,
	ContentTypeBlogPost,
	ContentTypeWikiPage,
	ContentTypeGalleryItem,
	ContentTypeStory,
}

// Valid reports whether t is a known content type
func (t ContentType) Valid() bool {
	for _, ct := range ContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

var contentPaths = map[ContentType]string{
	ContentTypeArticle:     "/articles",
	ContentTypeBlogPost:    "/blog",
	ContentTypeWikiPage:    "/wiki",
	ContentTypeGalleryItem: "/gallery",
	ContentTypeStory:       "/stories",
}

// Path is the public URL prefix of the type
func (t ContentType) Path() string { return contentPaths[t] }

// ContentStatus is the publication state of a content item
type ContentStatus string

const (
	StatusDraft     ContentStatus = "DRAFT"
	StatusPublished ContentStatus = "PUBLISHED"
	StatusArchived  ContentStatus = "ARCHIVED"
)

// Valid reports whether s is a known status
func (s ContentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

// ContentBase holds the columns every content table shares
type ContentBase struct {
	ID          uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string        `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug        string        `gorm:"column:slug;type:varchar(255);uniqueIndex;not null" json:"slug"`
	Content     string        `gorm:"column:content;type:mediumtext" json:"content"`
	Excerpt     string        `gorm:"column:excerpt;type:text" json:"excerpt"`
	Status      ContentStatus `gorm:"column:status;type:varchar(20);default:DRAFT;index" json:"status"`
	PublishedAt *time.Time    `gorm:"column:published_at;index" json:"published_at,omitempty"`
	ScheduledAt *time.Time    `gorm:"column:scheduled_at;index" json:"scheduled_at,omitempty"`
	AuthorID    *uint64       `gorm:"column:author_id;index" json:"author_id,omitempty"`
	CreatedByID uint64        `gorm:"column:created_by_id;index" json:"created_by_id"`
	ViewCount   uint64        `gorm:"column:view_count;default:0" json:"view_count"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// ContentHTML is rendered on detail reads only
	ContentHTML string `gorm:"-" json:"content_html,omitempty"`
}

// Base gives shared code access to the common columns of any content model
func (b *ContentBase) Base() *ContentBase { return b }

// IsPublished reports whether the item is publicly visible
func (b *ContentBase) IsPublished() bool { return b.Status == StatusPublished }

// SetStatus changes status and stamps PublishedAt on the first publish
func (b *ContentBase) SetStatus(status ContentStatus, now time.Time) {
	b.Status = status
	if status == StatusPublished {
		if b.PublishedAt == nil {
			b.PublishedAt = &now
		}
		b.ScheduledAt = nil
	}
}

// Relations are the associations every content model preloads
type Relations struct {
	Author     *Author
	Categories []Category
	Tags       []Tag
}

// Content is implemented by every content model (through *ContentBase and a ContentType method)
type Content interface {
	Base() *ContentBase
	ContentType() ContentType
	TableName() string
	Relations() Relations
}

// ContentRef is a lightweight, type-agnostic view of a content row
type ContentRef struct {
	Type        ContentType   `json:"type"`
	ID          uint64        `json:"id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Status      ContentStatus `json:"status"`
	AuthorID    *uint64       `json:"author_id,omitempty"`
	CreatedByID uint64        `json:"created_by_id"`
}

// ContentFilter narrows content listings
type ContentFilter struct {
	Status       ContentStatus
	CategorySlug string
	TagSlug      string
	AuthorID     uint64
	Search       string
	Featured     *bool
	Series       string
	Genre        string
	Page         int
	Limit        int
	Sort         string
}

// Offset returns the row offset for the filter's page
func (f ContentFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ContentRequest carries the shared create fields of every content type
type ContentRequest struct {
	Title       string        `json:"title" binding:"required,max=255"`
	Slug        string        `json:"slug" binding:"omitempty,slug"`
	Content     string        `json:"content"`
	Excerpt     string        `json:"excerpt"`
	Status      ContentStatus `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	ScheduledAt *time.Time    `json:"scheduled_at"`
	AuthorID    *uint64       `json:"author_id"`
	CategoryIDs []uint64      `json:"category_ids"`
	TagIDs      []uint64      `json:"tag_ids"`
}

// UpdateContentRequest carries optional shared update fields; nil means unchanged
type UpdateContentRequest struct {
	Title       *string        `json:"title" binding:"omitempty,max=255"`
	Slug        *string        `json:"slug" binding:"omitempty,slug"`
	Content     *string        `json:"content"`
	Excerpt     *string        `json:"excerpt"`
	Status      *ContentStatus `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	AuthorID    *uint64        `json:"author_id"`
	CategoryIDs *[]uint64      `json:"category_ids"`
	TagIDs      *[]uint64      `json:"tag_ids"`
	ChangeNote  string         `json:"change_note" binding:"omitempty,max=255"`
}
