package domain

import "time"

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentApproved CommentStatus = "APPROVED"
	CommentPending  CommentStatus = "PENDING"
	CommentHidden   CommentStatus = "HIDDEN"
)

// Comment is attached to any content item through (ContentType, ContentID)
type Comment struct {
	ID          uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ContentType ContentType   `gorm:"column:content_type;type:varchar(20);index:idx_comment_content,priority:1;not null" json:"content_type"`
	ContentID   uint64        `gorm:"column:content_id;index:idx_comment_content,priority:2;not null" json:"content_id"`
	ParentID    *uint64       `gorm:"column:parent_id;index" json:"parent_id,omitempty"`
	UserID      uint64        `gorm:"column:user_id;index;not null" json:"user_id"`
	Body        string        `gorm:"column:body;type:text;not null" json:"body"`
	Status      CommentStatus `gorm:"column:status;type:varchar(20);default:APPROVED;index" json:"status"`
	CreatedAt   time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	User    *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

// TableName returns the table name
func (Comment) TableName() string { return "comments" }

// CreateCommentRequest is the body of POST /comments
type CreateCommentRequest struct {
	ContentType ContentType `json:"content_type" binding:"required,content_type"`
	ContentID   uint64      `json:"content_id" binding:"required"`
	ParentID    *uint64     `json:"parent_id"`
	Body        string      `json:"body" binding:"required,max=5000"`
}

// UpdateCommentRequest is the body of PUT /comments/:id
type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// ModerateCommentRequest is the body of PATCH /comments/:id/status
type ModerateCommentRequest struct {
	Status CommentStatus `json:"status" binding:"required,oneof=APPROVED PENDING HIDDEN"`
}
