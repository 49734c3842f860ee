package domain

// Story is a piece of fiction, optionally a chapter of a series
type Story struct {
	ContentBase
	Genre     string `gorm:"column:genre;type:varchar(50);index" json:"genre,omitempty"`
	WordCount int    `gorm:"column:word_count;default:0" json:"word_count"`
	Series    string `gorm:"column:series;type:varchar(255);index" json:"series,omitempty"`
	Chapter   *int   `gorm:"column:chapter" json:"chapter,omitempty"`

	Author     *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:story_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:story_tags" json:"tags"`
}

// TableName returns the table name
func (Story) TableName() string { return "stories" }

// ContentType returns the polymorphic discriminator
func (Story) ContentType() ContentType { return ContentTypeStory }

// Relations exposes the preloaded author and taxonomy
func (s *Story) Relations() Relations {
	return Relations{Author: s.Author, Categories: s.Categories, Tags: s.Tags}
}

// CreateStoryRequest is the body of POST /stories
type CreateStoryRequest struct {
	ContentRequest
	Genre   string `json:"genre" binding:"omitempty,max=50"`
	Series  string `json:"series" binding:"omitempty,max=255"`
	Chapter *int   `json:"chapter" binding:"omitempty,min=1"`
}

// UpdateStoryRequest is the body of PUT /stories/:id
type UpdateStoryRequest struct {
	UpdateContentRequest
	Genre   *string `json:"genre" binding:"omitempty,max=50"`
	Series  *string `json:"series" binding:"omitempty,max=255"`
	Chapter *int    `json:"chapter" binding:"omitempty,min=1"`
}
