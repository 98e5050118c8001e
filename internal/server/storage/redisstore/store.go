// Package redisstore keeps refresh token records in Redis. Each record is a hash;
// a sorted set indexed by expiry lets the janitor find stale records.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/tweetbook/internal/models"
	"github.com/iudanet/tweetbook/internal/server/storage"
)

// DefaultPrefix namespaces every key written by the store
const DefaultPrefix = "tweetbook"

var (
	// ErrRedisUnavailable wraps transport failures
	ErrRedisUnavailable = errors.New("redis unavailable")
	// ErrTokenExists is returned when inserting a token value twice
	ErrTokenExists = errors.New("refresh token already exists")
)

var (
	_ storage.TokenStorage = (*TokenStore)(nil)
	_ storage.Pinger       = (*TokenStore)(nil)
)

const (
	fieldJwtID        = "jwt_id"
	fieldUserID       = "user_id"
	fieldCreationDate = "creation_date"
	fieldExpireDate   = "expire_date"
	fieldUsed         = "used"
	fieldInvalidated  = "invalidated"
)

// KEYS[1] record, KEYS[2] expiry index
// ARGV[1] token, ARGV[2] expiry score, ARGV[3] key expireat, ARGV[4..] field/value pairs
const insertScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
for i = 4, #ARGV, 2 do
  redis.call("HSET", KEYS[1], ARGV[i], ARGV[i + 1])
end
redis.call("EXPIREAT", KEYS[1], ARGV[3])
redis.call("ZADD", KEYS[2], ARGV[2], ARGV[1])
return 1
`

// -1 missing, 0 already used, 1 marked by this call
const markUsedScript = `
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
if redis.call("HGET", KEYS[1], "used") == "1" then
  return 0
end
redis.call("HSET", KEYS[1], "used", "1")
return 1
`

// KEYS[1] expiry index; ARGV[1] exclusive upper score, ARGV[2] record key prefix
const deleteExpiredScript = `
local expired = redis.call("ZRANGEBYSCORE", KEYS[1], "-inf", "(" .. ARGV[1])
local deleted = 0
for _, token in ipairs(expired) do
  deleted = deleted + redis.call("DEL", ARGV[2] .. token)
end
if #expired > 0 then
  redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", "(" .. ARGV[1])
end
return deleted
`

var (
	insertLua        = redis.NewScript(insertScript)
	markUsedLua      = redis.NewScript(markUsedScript)
	deleteExpiredLua = redis.NewScript(deleteExpiredScript)
)

// TokenStore is the Redis implementation of storage.TokenStorage
type TokenStore struct {
	rdb       redis.UniversalClient
	prefix    string
	retention time.Duration
}

// MinRetention is how long an expired record stays readable before Redis
// evicts it, so refresh still reports it as expired rather than unknown.
const MinRetention = 24 * time.Hour

// NewTokenStore creates a store over rdb. Records are evicted by Redis
// retention after their expiry even if the janitor never runs.
// Retention below MinRetention is raised to it.
func NewTokenStore(rdb redis.UniversalClient, prefix string, retention time.Duration) *TokenStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if retention < MinRetention {
		retention = MinRetention
	}
	return &TokenStore{
		rdb:       rdb,
		prefix:    prefix,
		retention: retention,
	}
}

func (s *TokenStore) recordPrefix() string {
	return s.prefix + ":refresh:"
}

func (s *TokenStore) key(token string) string {
	return s.recordPrefix() + token
}

func (s *TokenStore) indexKey() string {
	return s.prefix + ":refresh_expiry"
}

// Ping checks that Redis is reachable
func (s *TokenStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// InsertRefreshToken stores a new refresh token record
func (s *TokenStore) InsertRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	args := []any{
		token.Token,
		token.ExpireDate.UnixMilli(),
		token.ExpireDate.Add(s.retention).Unix(),
		fieldJwtID, token.JwtID,
		fieldUserID, token.UserID,
		fieldCreationDate, token.CreationDate.UTC().Format(time.RFC3339Nano),
		fieldExpireDate, token.ExpireDate.UTC().Format(time.RFC3339Nano),
		fieldUsed, formatBool(token.Used),
		fieldInvalidated, formatBool(token.Invalidated),
	}

	inserted, err := insertLua.Run(ctx, s.rdb, []string{s.key(token.Token), s.indexKey()}, args...).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if inserted == 0 {
		return ErrTokenExists
	}

	return nil
}

// GetRefreshToken retrieves refresh token by token value
func (s *TokenStore) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, storage.ErrTokenNotFound
	}

	record := &models.RefreshToken{
		Token:       token,
		JwtID:       fields[fieldJwtID],
		UserID:      fields[fieldUserID],
		Used:        fields[fieldUsed] == "1",
		Invalidated: fields[fieldInvalidated] == "1",
	}

	if record.CreationDate, err = time.Parse(time.RFC3339Nano, fields[fieldCreationDate]); err != nil {
		return nil, fmt.Errorf("corrupt refresh token %s: %w", fieldCreationDate, err)
	}
	if record.ExpireDate, err = time.Parse(time.RFC3339Nano, fields[fieldExpireDate]); err != nil {
		return nil, fmt.Errorf("corrupt refresh token %s: %w", fieldExpireDate, err)
	}

	return record, nil
}

// MarkRefreshTokenUsed flips used to true atomically via a Lua script
func (s *TokenStore) MarkRefreshTokenUsed(ctx context.Context, token string) (bool, error) {
	status, err := markUsedLua.Run(ctx, s.rdb, []string{s.key(token)}).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	switch status {
	case -1:
		return false, storage.ErrTokenNotFound
	case 1:
		return true, nil
	default:
		return false, nil
	}
}

// DeleteExpiredTokens removes records whose expiry is before the given time
func (s *TokenStore) DeleteExpiredTokens(ctx context.Context, before time.Time) (int, error) {
	deleted, err := deleteExpiredLua.Run(ctx, s.rdb,
		[]string{s.indexKey()},
		strconv.FormatInt(before.UnixMilli(), 10),
		s.recordPrefix(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(deleted), nil
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
