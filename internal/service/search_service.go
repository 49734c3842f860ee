package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mediaportal/portal-backend/internal/common"
	"github.com/mediaportal/portal-backend/internal/domain"
	"github.com/mediaportal/portal-backend/pkg/cache"
	es "github.com/mediaportal/portal-backend/pkg/elasticsearch"
	"github.com/mediaportal/portal-backend/pkg/ginutil"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// DefaultSearchIndex holds every content type
const DefaultSearchIndex = "portal_content"

const maxSuggestions = 10

// SearchEngine is the subset of the Elasticsearch client the search service needs
type SearchEngine interface {
	IndexDocument(ctx context.Context, index, docID string, body interface{}) error
	DeleteDocument(ctx context.Context, index, docID string) error
	BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*es.SearchResponse, error)
	Suggest(ctx context.Context, index, field, text string, size int) ([]string, error)
	CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error
	DeleteIndex(ctx context.Context, index string) error
}

// DocumentSource builds search documents from the database
type DocumentSource interface {
	SearchDocument(ctx context.Context, ct domain.ContentType, id uint64) (*domain.SearchDocument, error)
	EachSearchDocument(ctx context.Context, fn func([]*domain.SearchDocument) error) error
}

// SearchService provides Elasticsearch-based search over all content types
type SearchService struct {
	engine SearchEngine
	source DocumentSource
	cache  cache.Service
	index  string
	group  singleflight.Group
}

// NewSearchService creates a new SearchService; engine is nil when search is disabled
func NewSearchService(engine SearchEngine, source DocumentSource, cacheService cache.Service, index string) *SearchService {
	if index == "" {
		index = DefaultSearchIndex
	}
	return &SearchService{engine: engine, source: source, cache: cacheService, index: index}
}

// Enabled reports whether a search engine is configured
func (s *SearchService) Enabled() bool { return s.engine != nil }

// EnsureIndex creates the index with its mapping if it is missing
func (s *SearchService) EnsureIndex(ctx context.Context) error {
	if s.engine == nil {
		return common.ErrSearchUnavailable
	}
	if err := s.engine.CreateIndex(ctx, s.index, contentMapping()); err != nil {
		return fmt.Errorf("create %s index: %w", s.index, err)
	}
	return nil
}

func contentMapping() map[string]interface{} {
	text := map[string]interface{}{"type": "text", "analyzer": "content"}
	keyword := map[string]interface{}{"type": "keyword"}
	return map[string]interface{}{
		"settings": map[string]interface{}{
			"analysis": map[string]interface{}{
				"analyzer": map[string]interface{}{
					"content": map[string]interface{}{
						"type":      "custom",
						"tokenizer": "standard",
						"filter":    []string{"lowercase", "asciifolding"},
					},
				},
			},
		},
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":           keyword,
				"type":         keyword,
				"content_id":   map[string]interface{}{"type": "long"},
				"title":        text,
				"slug":         keyword,
				"excerpt":      text,
				"body":         text,
				"status":       keyword,
				"author_name":  map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": keyword}},
				"categories":   keyword,
				"tags":         keyword,
				"published_at": map[string]interface{}{"type": "date"},
				"suggest":      map[string]interface{}{"type": "completion"},
			},
		},
	}
}

// Search runs a full-text query; results are cached by normalised parameters
// and concurrent identical misses share one engine call.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) (*domain.SearchResult, error) {
	if s.engine == nil {
		return nil, common.ErrSearchUnavailable
	}
	q.Query = strings.TrimSpace(q.Query)
	if q.Query == "" {
		return nil, fmt.Errorf("%w: empty query", common.ErrInvalidInput)
	}
	for _, t := range q.Types {
		if !t.Valid() {
			return nil, common.ErrInvalidType
		}
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > ginutil.MaxPageSize {
		q.Limit = ginutil.DefaultPageSize
	}

	key := cache.SearchKey(searchValues(q))
	var cached domain.SearchResult
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		resp, err := s.engine.Search(ctx, s.index, buildSearchQuery(q), (q.Page-1)*q.Limit, q.Limit)
		if err != nil {
			return nil, err
		}
		result := &domain.SearchResult{
			Hits:  toHits(resp.Results),
			Total: resp.Total,
			Page:  q.Page,
			Limit: q.Limit,
		}
		_ = s.cache.Set(ctx, key, result, cache.TTLSearch)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.SearchResult), nil
}

func searchValues(q domain.SearchQuery) url.Values {
	v := url.Values{}
	v.Set("q", q.Query)
	for _, t := range q.Types {
		v.Add("type", string(t))
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

func buildSearchQuery(q domain.SearchQuery) map[string]interface{} {
	filter := []map[string]interface{}{
		{"term": map[string]interface{}{"status": domain.StatusPublished}},
	}
	if len(q.Types) > 0 {
		filter = append(filter, map[string]interface{}{
			"terms": map[string]interface{}{"type": q.Types},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"multi_match": map[string]interface{}{
							"query":  q.Query,
							"fields": []string{"title^3", "excerpt^2", "body", "author_name", "tags^2"},
							"type":   "best_fields",
						},
					},
				},
				"filter": filter,
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title": map[string]interface{}{"number_of_fragments": 0},
				"body":  map[string]interface{}{"fragment_size": 150, "number_of_fragments": 3},
			},
			"pre_tags":  []string{"<mark>"},
			"post_tags": []string{"</mark>"},
		},
		"sort": []interface{}{
			"_score",
			map[string]interface{}{"published_at": map[string]interface{}{"order": "desc"}},
		},
	}
}

func toHits(results []es.SearchResult) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, len(results))
	for _, r := range results {
		hit := domain.SearchHit{
			Score:      r.Score,
			Highlights: r.Highlight,
		}
		hit.Type = domain.ContentType(sourceString(r.Source, "type"))
		hit.Title = sourceString(r.Source, "title")
		hit.Slug = sourceString(r.Source, "slug")
		hit.Excerpt = sourceString(r.Source, "excerpt")
		hit.PublishedAt = sourceString(r.Source, "published_at")
		if id, ok := r.Source["content_id"].(float64); ok {
			hit.ContentID = uint64(id)
		}
		hits = append(hits, hit)
	}
	return hits
}

func sourceString(source map[string]interface{}, field string) string {
	if v, ok := source[field].(string); ok {
		return v
	}
	return ""
}

// Suggest returns title completions for a prefix
func (s *SearchService) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if s.engine == nil {
		return nil, common.ErrSearchUnavailable
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if limit < 1 || limit > maxSuggestions {
		limit = maxSuggestions
	}
	return s.engine.Suggest(ctx, s.index, "suggest", prefix, limit)
}

// IndexContent indexes a published item, or removes it from the index when it is not published
func (s *SearchService) IndexContent(ctx context.Context, ct domain.ContentType, id uint64) error {
	if s.engine == nil {
		return nil
	}
	doc, err := s.source.SearchDocument(ctx, ct, id)
	if err != nil {
		return err
	}
	if doc.Status != domain.StatusPublished {
		return s.RemoveContent(ctx, ct, id)
	}
	if err := s.engine.IndexDocument(ctx, s.index, doc.ID, doc); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// RemoveContent deletes an item from the index
func (s *SearchService) RemoveContent(ctx context.Context, ct domain.ContentType, id uint64) error {
	if s.engine == nil {
		return nil
	}
	if err := s.engine.DeleteDocument(ctx, s.index, SearchDocumentID(ct, id)); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Reindex rebuilds the index from the database and returns the number of indexed documents
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.engine == nil {
		return 0, common.ErrSearchUnavailable
	}
	if err := s.engine.DeleteIndex(ctx, s.index); err != nil {
		return 0, err
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return 0, err
	}

	count := 0
	err := s.source.EachSearchDocument(ctx, func(docs []*domain.SearchDocument) error {
		batch := make(map[string]interface{}, len(docs))
		for _, d := range docs {
			batch[d.ID] = d
		}
		if err := s.engine.BulkIndex(ctx, s.index, batch); err != nil {
			return err
		}
		count += len(docs)
		return nil
	})
	s.invalidate(ctx)
	if err != nil {
		return count, err
	}

	pkglogger.GetLogger().Info().Int("documents", count).Str("index", s.index).Msg("search index rebuilt")
	return count, nil
}

func (s *SearchService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateSearch(ctx); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("search cache invalidation failed")
	}
}
