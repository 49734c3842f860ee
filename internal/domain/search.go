package domain

import "time"

// SearchDocument is the indexed representation of any content item
type SearchDocument struct {
	ID          string        `json:"id"`
	Type        ContentType   `json:"type"`
	ContentID   uint64        `json:"content_id"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Excerpt     string        `json:"excerpt"`
	Body        string        `json:"body"`
	Status      ContentStatus `json:"status"`
	AuthorName  string        `json:"author_name,omitempty"`
	Categories  []string      `json:"categories"`
	Tags        []string      `json:"tags"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	Suggest     []string      `json:"suggest"`
}

// SearchQuery are the normalised parameters of GET /search
type SearchQuery struct {
	Query string        `form:"q" binding:"required,max=200"`
	Types []ContentType `form:"type"`
	Page  int           `form:"page"`
	Limit int           `form:"limit"`
}

// SearchHit is one result of a search
type SearchHit struct {
	Type        ContentType         `json:"type"`
	ContentID   uint64              `json:"content_id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Excerpt     string              `json:"excerpt"`
	Score       float64             `json:"score"`
	Highlights  map[string][]string `json:"highlights,omitempty"`
	PublishedAt string              `json:"published_at,omitempty"`
}

// SearchResult is a page of hits
type SearchResult struct {
	Hits  []SearchHit `json:"hits"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
