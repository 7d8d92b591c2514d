// ABOUTME: Redis-backed insight cache for multi-process deployments.
// ABOUTME: Reports are JSON under wellsync:insights:<user>, generations under wellsync:insights:gen:<user>.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/harperreed/wellsync/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// putIfGeneration sets KEYS[1] to ARGV[2] only while KEYS[2] still holds
// ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var putIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[1], ARGV[2])
end
return 1
`)

// invalidate deletes KEYS[1] and bumps the generation in KEYS[2], which
// expires after ARGV[1] milliseconds when that is positive.
var invalidate = redis.NewScript(`
redis.call('DEL', KEYS[1])
local gen = redis.call('INCR', KEYS[2])
if tonumber(ARGV[1]) > 0 then
	redis.call('PEXPIRE', KEYS[2], ARGV[1])
end
return gen
`)

// Redis caches reports in Redis.
type Redis struct {
	client redis.Cmdable
	closer func() error
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Cache = (*Redis)(nil)

// NewRedis connects to addr.
func NewRedis(addr string, ttl time.Duration, logger zerolog.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		PoolSize:        10,
		MinIdleConns:    2,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})
	r := NewRedisWithClient(client, ttl, logger)
	r.closer = client.Close
	return r
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.Cmdable, ttl time.Duration, logger zerolog.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, logger: logger}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, userID string) (*models.InsightReport, bool) {
	raw, err := r.client.Get(ctx, Key(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn().Err(err).Str("user_id", userID).Msg("redis cache get failed")
		}
		return nil, false
	}

	var report models.InsightReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("redis cache entry unreadable")
		return nil, false
	}
	return &report, true
}

func (r *Redis) Generation(ctx context.Context, userID string) (uint64, error) {
	gen, err := r.client.Get(ctx, GenerationKey(userID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) Put(ctx context.Context, userID string, gen uint64, report *models.InsightReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	keys := []string{Key(userID), GenerationKey(userID)}
	stored, err := putIfGeneration.Run(ctx, r.client, keys,
		strconv.FormatUint(gen, 10), string(data), r.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if stored == 0 {
		return ErrStale
	}
	return nil
}

// Invalidate deletes the report and bumps the generation atomically. The
// generation key shares the report TTL.
func (r *Redis) Invalidate(ctx context.Context, userID string) error {
	keys := []string{Key(userID), GenerationKey(userID)}
	if err := invalidate.Run(ctx, r.client, keys, r.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if r.closer != nil {
		return r.closer()
	}
	return nil
}
