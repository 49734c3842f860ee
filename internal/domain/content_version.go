package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ContentVersion is an immutable snapshot of a content item
type ContentVersion struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentType ContentType    `gorm:"column:content_type;type:varchar(20);uniqueIndex:idx_version_content,priority:1;not null" json:"content_type"`
	ContentID   uint64         `gorm:"column:content_id;uniqueIndex:idx_version_content,priority:2;not null" json:"content_id"`
	Version     int            `gorm:"column:version;uniqueIndex:idx_version_content,priority:3;not null" json:"version"`
	Title       string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Content     string         `gorm:"column:content;type:mediumtext" json:"content"`
	Excerpt     string         `gorm:"column:excerpt;type:text" json:"excerpt"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	IsAutosave  bool           `gorm:"column:is_autosave;default:false;index" json:"is_autosave"`
	ChangeNote  string         `gorm:"column:change_note;type:varchar(255)" json:"change_note,omitempty"`
	CreatedByID uint64         `gorm:"column:created_by_id" json:"created_by_id"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (ContentVersion) TableName() string { return "content_versions" }

// SameSnapshot reports whether two versions carry identical content
func (v *ContentVersion) SameSnapshot(o *ContentVersion) bool {
	return v.Title == o.Title && v.Content == o.Content && v.Excerpt == o.Excerpt &&
		string(v.Metadata) == string(o.Metadata)
}

// CreateVersionRequest is the body of POST /content-versions
type CreateVersionRequest struct {
	ContentType ContentType    `json:"content_type" binding:"required,content_type"`
	ContentID   uint64         `json:"content_id" binding:"required"`
	Title       string         `json:"title" binding:"required,max=255"`
	Content     string         `json:"content"`
	Excerpt     string         `json:"excerpt"`
	Metadata    datatypes.JSON `json:"metadata" swaggertype:"object"`
	IsAutosave  bool           `json:"is_autosave"`
	ChangeNote  string         `json:"change_note" binding:"omitempty,max=255"`
}

// PruneVersionsRequest is the body of POST /content-versions/prune
type PruneVersionsRequest struct {
	ContentType ContentType `json:"content_type" binding:"required,content_type"`
	ContentID   uint64      `json:"content_id" binding:"required"`
	KeepCount   int         `json:"keep_count" binding:"required,min=1"`
}

// FieldChange describes one changed field between two versions
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// VersionDiff is the result of comparing two versions
type VersionDiff struct {
	From        int           `json:"from"`
	To          int           `json:"to"`
	Changes     []FieldChange `json:"changes"`
	ContentDiff string        `json:"content_diff"`
	Insertions  int           `json:"insertions"`
	Deletions   int           `json:"deletions"`
}
