package domain

// GalleryItem is an uploaded image; Content holds its description
type GalleryItem struct {
	ContentBase
	ImageKey     string `gorm:"column:image_key;type:varchar(500);not null" json:"-"`
	ImageURL     string `gorm:"column:image_url;type:varchar(500)" json:"image_url"`
	ThumbnailKey string `gorm:"column:thumbnail_key;type:varchar(500)" json:"-"`
	ThumbnailURL string `gorm:"column:thumbnail_url;type:varchar(500)" json:"thumbnail_url,omitempty"`
	MimeType     string `gorm:"column:mime_type;type:varchar(50)" json:"mime_type"`
	FileSize     int64  `gorm:"column:file_size" json:"file_size"`
	Width        int    `gorm:"column:width" json:"width,omitempty"`
	Height       int    `gorm:"column:height" json:"height,omitempty"`
	AltText      string `gorm:"column:alt_text;type:varchar(255)" json:"alt_text,omitempty"`

	Author     *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:gallery_item_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:gallery_item_tags" json:"tags"`
}

// TableName returns the table name
func (GalleryItem) TableName() string { return "gallery_items" }

// ContentType returns the polymorphic discriminator
func (GalleryItem) ContentType() ContentType { return ContentTypeGalleryItem }

// Relations exposes the preloaded author and taxonomy
func (g *GalleryItem) Relations() Relations {
	return Relations{Author: g.Author, Categories: g.Categories, Tags: g.Tags}
}

// GalleryUploadForm is the multipart form of POST /gallery (file comes separately)
type GalleryUploadForm struct {
	Title       string        `form:"title" binding:"required,max=255"`
	Slug        string        `form:"slug" binding:"omitempty,slug"`
	Description string        `form:"description"`
	AltText     string        `form:"alt_text" binding:"omitempty,max=255"`
	Status      ContentStatus `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
	AuthorID    *uint64       `form:"author_id"`
	CategoryIDs []uint64      `form:"category_ids"`
	TagIDs      []uint64      `form:"tag_ids"`
}

// UpdateGalleryItemRequest is the body of PUT /gallery/:id
type UpdateGalleryItemRequest struct {
	UpdateContentRequest
	AltText *string `json:"alt_text" binding:"omitempty,max=255"`
}
