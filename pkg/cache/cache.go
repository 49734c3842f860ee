package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL 상수 정의
const (
	TTLContent  = 5 * time.Minute  // 단건 콘텐츠
	TTLList     = 30 * time.Second // 목록 (자주 갱신)
	TTLSearch   = 2 * time.Minute  // 검색 결과
	TTLWikiTree = 10 * time.Minute // 위키 트리 (변경 빈도 낮음)
	TTLRating   = 1 * time.Minute  // 평점 요약
	TTLDefault  = 5 * time.Minute
)

// 캐시 키 접두사
const (
	PrefixContent = "content:"
	PrefixList    = "list:"
	PrefixSearch  = "search:"
	PrefixWiki    = "wiki:"
	PrefixRating  = "rating:"
)

// ErrMiss is returned by Get when the key is absent or Redis is unavailable
var ErrMiss = errors.New("cache miss")

// Service Redis 캐시 서비스 인터페이스
type Service interface {
	// 기본 캐시 연산
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// 콘텐츠 캐시
	InvalidateContent(ctx context.Context, contentType string) error
	InvalidateSearch(ctx context.Context) error

	// 유틸리티
	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis 기반 캐시 구현
type redisCache struct {
	client *redis.Client
}

// NewService 새로운 캐시 서비스 생성 (client가 nil이면 no-op)
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// IsAvailable Redis 연결 가능 여부
func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

// Ping Redis 연결 테스트
func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get 캐시에서 값 조회
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set 캐시에 값 저장
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // Redis 없으면 무시
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete 캐시 삭제
func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// DeletePattern 패턴 일치 키 삭제
func (c *redisCache) DeletePattern(ctx context.Context, pattern string) error {
	if c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// InvalidateContent drops detail and list entries of one content type
func (c *redisCache) InvalidateContent(ctx context.Context, contentType string) error {
	if err := c.DeletePattern(ctx, PrefixContent+contentType+":*"); err != nil {
		return err
	}
	return c.DeletePattern(ctx, PrefixList+contentType+":*")
}

// InvalidateSearch drops every cached search result
func (c *redisCache) InvalidateSearch(ctx context.Context) error {
	return c.DeletePattern(ctx, PrefixSearch+"*")
}

// ========================================
// 키 생성
// ========================================

// ContentKey content:<type>:<slug>
func ContentKey(contentType, slug string) string {
	return PrefixContent + contentType + ":" + slug
}

// ListKey list:<type>:<hash of normalised query>
func ListKey(contentType string, params url.Values) string {
	return PrefixList + contentType + ":" + hashParams(params)
}

// SearchKey search:<hash of normalised query>
func SearchKey(params url.Values) string {
	return PrefixSearch + hashParams(params)
}

// RatingKey rating:<type>:<id>
func RatingKey(contentType string, contentID uint64) string {
	return fmt.Sprintf("%s%s:%d", PrefixRating, contentType, contentID)
}

// WikiTreeKey wiki:tree
func WikiTreeKey() string {
	return PrefixWiki + "tree"
}

// hashParams builds an order-independent, case-normalised digest of query params
// so "?q=Go&page=1" and "?page=1&q=go" share one entry.
func hashParams(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), params[k]...)
		for i := range vals {
			vals[i] = strings.ToLower(strings.TrimSpace(vals[i]))
		}
		sort.Strings(vals)
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(vals, ","))
		b.WriteByte('&')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:8])
}
