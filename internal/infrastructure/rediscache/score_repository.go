// Package rediscache provides a Redis read-through cache in front of the
// trust score store.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
)

// Entries are hashes holding the JSON score and its calculated_at in unix microseconds.
const (
	keyPrefix  = "trust:score:v2:"
	fieldScore = "score"
	fieldAt    = "at"
)

// storeIfNotOlder refuses to replace a cached score with an older snapshot,
// so out-of-order writes from concurrent recomputes keep the newest one.
var storeIfNotOlder = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], ARGV[1])
if current and tonumber(current) > tonumber(ARGV[3]) then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[3], ARGV[2], ARGV[4])
if tonumber(ARGV[5]) > 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[5])
end
return 1
`)

// NewClient creates a go-redis client.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// ScoreRepository decorates a port.ScoreRepository with a Redis cache.
// Redis failures are logged and never surface to callers.
type ScoreRepository struct {
	next   port.ScoreRepository
	rdb    redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewScoreRepository wraps next with a read-through cache holding entries for ttl.
func NewScoreRepository(next port.ScoreRepository, rdb redis.Cmdable, ttl time.Duration, logger *slog.Logger) *ScoreRepository {
	return &ScoreRepository{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// Upsert writes through to the underlying store, then refreshes the cache entry
// unless it already holds a newer score.
func (r *ScoreRepository) Upsert(ctx context.Context, score *model.TrustScore) error {
	if err := r.next.Upsert(ctx, score); err != nil {
		r.evict(ctx, score.IdentityID)
		return err
	}
	r.store(ctx, score)
	return nil
}

// FindByIdentityID serves from Redis when possible, falling back to the underlying store.
func (r *ScoreRepository) FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.TrustScore, error) {
	raw, err := r.rdb.HGet(ctx, cacheKey(identityID), fieldScore).Bytes()
	switch {
	case err == nil:
		var score model.TrustScore
		if err := json.Unmarshal(raw, &score); err == nil {
			return &score, nil
		}
		r.logger.Warn("discarding undecodable cached trust score",
			slog.String("identity_id", identityID.String()),
		)
	case errors.Is(err, redis.Nil):
	default:
		r.warn("redis get failed", identityID, err)
	}

	score, err := r.next.FindByIdentityID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if score != nil {
		r.store(ctx, score)
	}
	return score, nil
}

func (r *ScoreRepository) store(ctx context.Context, score *model.TrustScore) {
	payload, err := json.Marshal(score)
	if err != nil {
		r.warn("failed to marshal trust score for cache", score.IdentityID, err)
		return
	}
	err = storeIfNotOlder.Run(ctx, r.rdb, []string{cacheKey(score.IdentityID)},
		fieldAt, fieldScore, score.CalculatedAt.UnixMicro(), payload, r.ttl.Milliseconds(),
	).Err()
	if err != nil {
		r.warn("redis set failed", score.IdentityID, err)
	}
}

func (r *ScoreRepository) evict(ctx context.Context, identityID uuid.UUID) {
	if err := r.rdb.Del(ctx, cacheKey(identityID)).Err(); err != nil {
		r.warn("redis del failed", identityID, err)
	}
}

func (r *ScoreRepository) warn(msg string, identityID uuid.UUID, err error) {
	r.logger.Warn(msg,
		slog.String("identity_id", identityID.String()),
		slog.String("error", err.Error()),
	)
}

func cacheKey(identityID uuid.UUID) string {
	return fmt.Sprintf("%s%s", keyPrefix, identityID)
}
