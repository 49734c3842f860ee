package domain

// BlogPost is a personal, chronological post
type BlogPost struct {
	ContentBase
	ReadingTime int `gorm:"column:reading_time;default:1" json:"reading_time"`

	Author     *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:blog_post_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:blog_post_tags" json:"tags"`
}

// TableName returns the table name
func (BlogPost) TableName() string { return "blog_posts" }

// ContentType returns the polymorphic discriminator
func (BlogPost) ContentType() ContentType { return ContentTypeBlogPost }

// Relations exposes the preloaded author and taxonomy
func (b *BlogPost) Relations() Relations {
	return Relations{Author: b.Author, Categories: b.Categories, Tags: b.Tags}
}
