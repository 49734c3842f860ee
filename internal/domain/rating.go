package domain

import "time"

// Rating is one user's 1..5 score of a content item
type Rating struct {
	ID          uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64      `gorm:"column:user_id;uniqueIndex:idx_rating_user_content,priority:1;not null" json:"user_id"`
	ContentType ContentType `gorm:"column:content_type;type:varchar(20);uniqueIndex:idx_rating_user_content,priority:2;index:idx_rating_content,priority:1;not null" json:"content_type"`
	ContentID   uint64      `gorm:"column:content_id;uniqueIndex:idx_rating_user_content,priority:3;index:idx_rating_content,priority:2;not null" json:"content_id"`
	Score       int         `gorm:"column:score;not null" json:"score"`
	Review      string      `gorm:"column:review;type:text" json:"review,omitempty"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Rating) TableName() string { return "ratings" }

// RatingRequest is the body of POST /ratings
type RatingRequest struct {
	ContentType ContentType `json:"content_type" binding:"required,content_type"`
	ContentID   uint64      `json:"content_id" binding:"required"`
	Score       int         `json:"score" binding:"required,min=1,max=5"`
	Review      string      `json:"review" binding:"omitempty,max=2000"`
}

// RatingSummary aggregates the ratings of one content item
type RatingSummary struct {
	ContentType  ContentType   `json:"content_type"`
	ContentID    uint64        `json:"content_id"`
	Average      float64       `json:"average"`
	Count        int64         `json:"count"`
	Distribution map[int]int64 `json:"distribution"`
}
