package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	blacklistTokenPrefix   = "blacklist:jti:"
	blacklistSessionPrefix = "blacklist:sid:"
)

// Blacklist keeps revoked token ids and session ids in Redis until they would expire anyway
type Blacklist struct {
	client *redis.Client
	now    func() time.Time
}

// NewBlacklist creates a Blacklist; a nil client disables revocation checks
func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client, now: time.Now}
}

// Enabled reports whether revocation is backed by Redis
func (b *Blacklist) Enabled() bool {
	return b != nil && b.client != nil
}

// Add stores the token id for its remaining lifetime.
// Returns false when the token is already expired (nothing to store).
func (b *Blacklist) Add(ctx context.Context, claims *Claims) (bool, error) {
	if !b.Enabled() || claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return false, nil
	}
	ttl := claims.ExpiresAt.Sub(b.now())
	if ttl <= 0 {
		return false, nil
	}
	if err := b.client.Set(ctx, blacklistTokenPrefix+claims.ID, 1, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// AddToken parses a raw token (signature already verified upstream) and blacklists it
func (b *Blacklist) AddToken(ctx context.Context, token string) (bool, error) {
	claims, err := ParseUnverified(token)
	if err != nil {
		return false, err
	}
	return b.Add(ctx, claims)
}

// RevokeSessions blacklists every access token bound to the given sessions.
// ttl should cover the longest access token lifetime.
func (b *Blacklist) RevokeSessions(ctx context.Context, sessionIDs []string, ttl time.Duration) error {
	if !b.Enabled() || len(sessionIDs) == 0 || ttl <= 0 {
		return nil
	}
	pipe := b.client.Pipeline()
	for _, sid := range sessionIDs {
		pipe.Set(ctx, blacklistSessionPrefix+sid, 1, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// IsBlacklisted checks the token id and its session
func (b *Blacklist) IsBlacklisted(ctx context.Context, claims *Claims) (bool, error) {
	if !b.Enabled() || claims == nil {
		return false, nil
	}
	keys := []string{blacklistTokenPrefix + claims.ID}
	if claims.SessionID != "" {
		keys = append(keys, blacklistSessionPrefix+claims.SessionID)
	}
	n, err := b.client.Exists(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}
