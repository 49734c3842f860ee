package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	pkglogger "github.com/mediaportal/portal-backend/pkg/logger"
)

// Client wraps the Elasticsearch client with convenience methods
type Client struct {
	es *elasticsearch.Client
}

// NewClient creates a new Elasticsearch client
func NewClient(addresses []string, username, password string) (*Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}
	if username != "" {
		cfg.Username = username
		cfg.Password = password
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation failed: %w", err)
	}

	// Ping
	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch connection failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	pkglogger.GetLogger().Info().Strs("addresses", addresses).Msg("connected to Elasticsearch")
	return &Client{es: es}, nil
}

// responseError turns a failed response into an error carrying the body
func responseError(op string, res *esapi.Response) error {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s error [%s]: failed to read response body: %w", op, res.Status(), err)
	}
	return fmt.Errorf("%s error [%s]: %s", op, res.Status(), string(body))
}

// IndexDocument indexes a single document
func (c *Client) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// DeleteDocument removes a document from an index
func (c *Client) DeleteDocument(ctx context.Context, index, docID string) error {
	req := esapi.DeleteRequest{
		Index:      index,
		DocumentID: docID,
	}

	res, err := req.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 404 is ok (document already gone)
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

// BulkIndex indexes multiple documents in a single request
func (c *Client) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for id, doc := range docs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": id},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to marshal bulk meta for id %s: %w", id, err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to marshal bulk doc for id %s: %w", id, err)
		}
	}

	res, err := c.es.Bulk(bytes.NewReader(buf.Bytes()), c.es.Bulk.WithContext(ctx), c.es.Bulk.WithRefresh("false"))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("bulk", res)
	}
	return nil
}

// SearchResult represents a single search hit
type SearchResult struct {
	ID        string                 `json:"id"`
	Score     float64                `json:"score"`
	Source    map[string]interface{} `json:"source"`
	Highlight map[string][]string    `json:"highlight,omitempty"`
}

// SearchResponse holds search results
type SearchResponse struct {
	Total   int64          `json:"total"`
	Results []SearchResult `json:"results"`
}

// Search performs a search query and returns results with highlights
func (c *Client) Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*SearchResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(&buf),
		c.es.Search.WithFrom(from),
		c.es.Search.WithSize(size),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("search", res)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, err
	}

	return ParseSearchResponse(raw), nil
}

// Suggest returns completion suggestions for a prefix
func (c *Client) Suggest(ctx context.Context, index, field, text string, size int) ([]string, error) {
	query := map[string]interface{}{
		"suggest": map[string]interface{}{
			"autocomplete": map[string]interface{}{
				"prefix": text,
				"completion": map[string]interface{}{
					"field":           field,
					"size":            size,
					"skip_duplicates": true,
				},
			},
		},
		"_source": false,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("failed to encode suggest query: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("suggest", res)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode suggest response: %w", err)
	}

	return ParseSuggestions(raw), nil
}

// CreateIndex creates an index with the given mapping (no-op if it exists)
func (c *Client) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(mapping); err != nil {
		return fmt.Errorf("failed to encode index mapping: %w", err)
	}

	res, err = c.es.Indices.Create(index, c.es.Indices.Create.WithBody(&buf), c.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		err := responseError("create index", res)
		// Ignore "already exists" error (concurrent creation)
		if !strings.Contains(err.Error(), "resource_already_exists_exception") {
			return err
		}
	}
	return nil
}

// DeleteIndex drops an index; a missing index is not an error
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	res, err := c.es.Indices.Delete([]string{index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete index", res)
	}
	return nil
}

// ParseSearchResponse extracts hits, totals and highlights from a raw search body
func ParseSearchResponse(raw map[string]interface{}) *SearchResponse {
	resp := &SearchResponse{Results: []SearchResult{}}

	hits, ok := raw["hits"].(map[string]interface{})
	if !ok {
		return resp
	}
	if total, ok := hits["total"].(map[string]interface{}); ok {
		if v, ok := total["value"].(float64); ok {
			resp.Total = int64(v)
		}
	}

	hitList, _ := hits["hits"].([]interface{})
	for _, h := range hitList {
		hit, ok := h.(map[string]interface{})
		if !ok {
			continue
		}
		result := SearchResult{
			ID: fmt.Sprintf("%v", hit["_id"]),
		}
		if score, ok := hit["_score"].(float64); ok {
			result.Score = score
		}
		if source, ok := hit["_source"].(map[string]interface{}); ok {
			result.Source = source
		}
		if hl, ok := hit["highlight"].(map[string]interface{}); ok {
			result.Highlight = make(map[string][]string)
			for field, fragments := range hl {
				fragList, _ := fragments.([]interface{})
				for _, f := range fragList {
					if s, ok := f.(string); ok {
						result.Highlight[field] = append(result.Highlight[field], s)
					}
				}
			}
		}
		resp.Results = append(resp.Results, result)
	}

	return resp
}

// ParseSuggestions extracts option texts of the "autocomplete" suggester
func ParseSuggestions(raw map[string]interface{}) []string {
	suggestions := []string{}
	suggest, _ := raw["suggest"].(map[string]interface{})
	autocomplete, _ := suggest["autocomplete"].([]interface{})
	if len(autocomplete) == 0 {
		return suggestions
	}
	first, _ := autocomplete[0].(map[string]interface{})
	options, _ := first["options"].([]interface{})
	for _, opt := range options {
		if optMap, ok := opt.(map[string]interface{}); ok {
			if text, ok := optMap["text"].(string); ok {
				suggestions = append(suggestions, text)
			}
		}
	}
	return suggestions
}
