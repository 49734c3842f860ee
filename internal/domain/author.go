package domain

import "time"

// Author is a public byline; it may be linked to one user account
type Author struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Slug      string    `gorm:"column:slug;type:varchar(120);uniqueIndex;not null" json:"slug"`
	Bio       string    `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL string    `gorm:"column:avatar_url;type:varchar(500)" json:"avatar_url,omitempty"`
	Website   string    `gorm:"column:website;type:varchar(255)" json:"website,omitempty"`
	UserID    *uint64   `gorm:"column:user_id;uniqueIndex" json:"user_id,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name
func (Author) TableName() string { return "authors" }

// AuthorRequest is the body for creating an author
type AuthorRequest struct {
	Name      string  `json:"name" binding:"required,max=100"`
	Slug      string  `json:"slug" binding:"omitempty,slug"`
	Bio       string  `json:"bio"`
	AvatarURL string  `json:"avatar_url" binding:"omitempty,url"`
	Website   string  `json:"website" binding:"omitempty,url"`
	UserID    *uint64 `json:"user_id"`
}

// UpdateAuthorRequest carries optional author changes
type UpdateAuthorRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Slug      *string `json:"slug" binding:"omitempty,slug"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Website   *string `json:"website" binding:"omitempty,url"`
	UserID    *uint64 `json:"user_id"`
}

// AuthorContentSummary counts an author's published content per type
type AuthorContentSummary struct {
	Author *Author               `json:"author"`
	Counts map[ContentType]int64 `json:"counts"`
	Total  int64                 `json:"total"`
}
