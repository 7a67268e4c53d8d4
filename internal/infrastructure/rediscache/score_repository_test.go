package rediscache_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/infrastructure/rediscache"
)

type mockScoreRepository struct {
	scores  map[uuid.UUID]*model.TrustScore
	finds   int
	upserts int
	err     error
}

func (m *mockScoreRepository) Upsert(_ context.Context, score *model.TrustScore) error {
	if m.err != nil {
		return m.err
	}
	m.upserts++
	m.scores[score.IdentityID] = score
	return nil
}

func (m *mockScoreRepository) FindByIdentityID(_ context.Context, id uuid.UUID) (*model.TrustScore, error) {
	m.finds++
	if m.err != nil {
		return nil, m.err
	}
	return m.scores[id], nil
}

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestScoreRepository_RedisUnavailable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	id := uuid.New()
	stored := &model.TrustScore{IdentityID: id, Total: 42, CalculatedAt: time.Now().UTC()}

	t.Run("reads fall through to the store", func(t *testing.T) {
		inner := &mockScoreRepository{scores: map[uuid.UUID]*model.TrustScore{id: stored}}
		rdb := unreachableClient()
		defer rdb.Close()
		repo := rediscache.NewScoreRepository(inner, rdb, time.Minute, logger)

		got, err := repo.FindByIdentityID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, stored, got)
		assert.Equal(t, 1, inner.finds)
	})

	t.Run("writes succeed when the store succeeds", func(t *testing.T) {
		inner := &mockScoreRepository{scores: map[uuid.UUID]*model.TrustScore{}}
		rdb := unreachableClient()
		defer rdb.Close()
		repo := rediscache.NewScoreRepository(inner, rdb, time.Minute, logger)

		require.NoError(t, repo.Upsert(context.Background(), stored))
		assert.Equal(t, 1, inner.upserts)
	})

	t.Run("store errors are returned unchanged", func(t *testing.T) {
		storeErr := fmt.Errorf("connection refused")
		inner := &mockScoreRepository{scores: map[uuid.UUID]*model.TrustScore{}, err: storeErr}
		rdb := unreachableClient()
		defer rdb.Close()
		repo := rediscache.NewScoreRepository(inner, rdb, time.Minute, logger)

		assert.ErrorIs(t, repo.Upsert(context.Background(), stored), storeErr)
		_, err := repo.FindByIdentityID(context.Background(), id)
		assert.ErrorIs(t, err, storeErr)
	})
}
