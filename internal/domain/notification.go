package domain

import "time"

// Notification types
const (
	NotificationComment = "comment"
	NotificationReply   = "reply"
	NotificationPublish = "publish"
	NotificationSystem  = "system"
)

// Notification represents a user notification (알림)
type Notification struct {
	ID          uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64      `gorm:"column:user_id;index;not null" json:"user_id"`
	Type        string      `gorm:"column:type;type:varchar(30)" json:"type"`
	Title       string      `gorm:"column:title;type:varchar(255)" json:"title"`
	Message     string      `gorm:"column:message;type:text" json:"message"`
	Link        string      `gorm:"column:link;type:varchar(500)" json:"link,omitempty"`
	ActorID     *uint64     `gorm:"column:actor_id" json:"actor_id,omitempty"`
	ContentType ContentType `gorm:"column:content_type;type:varchar(20)" json:"content_type,omitempty"`
	ContentID   uint64      `gorm:"column:content_id" json:"content_id,omitempty"`
	IsRead      bool        `gorm:"column:is_read;default:false;index" json:"is_read"`
	ReadAt      *time.Time  `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Notification) TableName() string { return "notifications" }

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
