package domain

// Article is a news-style content item that can be featured on the front page
type Article struct {
	ContentBase
	Featured      bool   `gorm:"column:featured;default:false;index" json:"featured"`
	FeaturedImage string `gorm:"column:featured_image;type:varchar(500)" json:"featured_image,omitempty"`

	Author     *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:article_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:article_tags" json:"tags"`
}

// TableName returns the table name
func (Article) TableName() string { return "articles" }

// ContentType returns the polymorphic discriminator
func (Article) ContentType() ContentType { return ContentTypeArticle }

// Relations exposes the preloaded author and taxonomy
func (a *Article) Relations() Relations {
	return Relations{Author: a.Author, Categories: a.Categories, Tags: a.Tags}
}

// CreateArticleRequest is the body of POST /articles
type CreateArticleRequest struct {
	ContentRequest
	Featured      bool   `json:"featured"`
	FeaturedImage string `json:"featured_image" binding:"omitempty,max=500"`
}

// UpdateArticleRequest is the body of PUT /articles/:id
type UpdateArticleRequest struct {
	UpdateContentRequest
	Featured      *bool   `json:"featured"`
	FeaturedImage *string `json:"featured_image" binding:"omitempty,max=500"`
}
