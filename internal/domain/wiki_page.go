package domain

// MaxWikiTreeDepth bounds the depth of the materialised wiki tree
const MaxWikiTreeDepth = 5

// WikiPage is a page in the wiki hierarchy
type WikiPage struct {
	ContentBase
	ParentID *uint64 `gorm:"column:parent_id;index" json:"parent_id,omitempty"`

	Author     *Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:wiki_page_categories" json:"categories"`
	Tags       []Tag      `gorm:"many2many:wiki_page_tags" json:"tags"`
}

// TableName returns the table name
func (WikiPage) TableName() string { return "wiki_pages" }

// ContentType returns the polymorphic discriminator
func (WikiPage) ContentType() ContentType { return ContentTypeWikiPage }

// Relations exposes the preloaded author and taxonomy
func (w *WikiPage) Relations() Relations {
	return Relations{Author: w.Author, Categories: w.Categories, Tags: w.Tags}
}

// CreateWikiPageRequest is the body of POST /wiki
type CreateWikiPageRequest struct {
	ContentRequest
	ParentID *uint64 `json:"parent_id"`
}

// UpdateWikiPageRequest is the body of PUT /wiki/:id.
// ClearParent moves the page to the root.
type UpdateWikiPageRequest struct {
	UpdateContentRequest
	ParentID    *uint64 `json:"parent_id"`
	ClearParent bool    `json:"clear_parent"`
}

// WikiTreeNode is a node of GET /wiki/tree
type WikiTreeNode struct {
	ID       uint64          `json:"id"`
	Title    string          `json:"title"`
	Slug     string          `json:"slug"`
	Children []*WikiTreeNode `json:"children"`
}

// Breadcrumb is one step of a root-first path to a page
type Breadcrumb struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}
