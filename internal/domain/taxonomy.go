package domain

import "time"

// Category groups content; shared by every content type
type Category struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Category) TableName() string { return "categories" }

// Tag is a free-form label
type Tag struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(60);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name
func (Tag) TableName() string { return "tags" }

// TaxonomyRequest creates a category or tag
type TaxonomyRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,slug"`
	Description string `json:"description"`
}
