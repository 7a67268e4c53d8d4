package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/application/usecase"
	"github.com/monostock/trust/internal/domain/event"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/service"
	"github.com/monostock/trust/internal/domain/valueobject"
	"github.com/monostock/trust/pkg/events"
)

func TestFactCollector_Collect(t *testing.T) {
	t.Run("returns nil for an unknown identity", func(t *testing.T) {
		f := newFixture()

		facts, err := f.collector().Collect(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Nil(t, facts)
	})

	t.Run("fails when the identity store fails", func(t *testing.T) {
		f := newFixture()
		f.identities.findFunc = func(_ context.Context, _ uuid.UUID) (*model.Identity, error) {
			return nil, fmt.Errorf("connection refused")
		}

		_, err := f.collector().Collect(context.Background(), uuid.New())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to find identity")
	})

	t.Run("optional source failures degrade to absent", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{EmailVerified: true})
		f.profiles.err = fmt.Errorf("relation business_profiles does not exist")
		f.connections.err = fmt.Errorf("timeout")
		f.messages.err = fmt.Errorf("timeout")
		f.engagements.err = fmt.Errorf("timeout")
		f.flags.listErr = fmt.Errorf("timeout")

		facts, err := f.collector().Collect(context.Background(), id)

		require.NoError(t, err)
		require.NotNil(t, facts)
		assert.True(t, facts.Identity.EmailVerified)
		assert.False(t, facts.Profile.IsPresent())
		assert.False(t, facts.Connections.IsPresent())
		assert.False(t, facts.Messages.IsPresent())
		assert.False(t, facts.Engagements.IsPresent())
		assert.False(t, facts.OpenFlags.IsPresent())
	})

	t.Run("collects every source", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		other := f.addIdentity(model.Identity{})
		f.profiles.profiles[id] = &model.BusinessProfile{IdentityID: id, CompanyName: "Acme"}
		f.connections.edges = []model.Connection{
			{RequesterID: other, ReceiverID: id, Status: valueobject.ConnectionConnected},
		}
		f.messages.counters[id] = model.MessageCounters{Sent: 10, Received: 3}
		f.engagements.counts[id] = 4

		facts, err := f.collector().Collect(context.Background(), id)

		require.NoError(t, err)
		profile, ok := facts.Profile.Get()
		require.True(t, ok)
		assert.Equal(t, "Acme", profile.CompanyName)
		assert.Len(t, facts.Connections.OrZero(), 1)
		assert.Equal(t, 10, facts.Messages.OrZero().Sent)
		assert.Equal(t, 4, facts.Engagements.OrZero())
		assert.True(t, facts.OpenFlags.IsPresent())
		assert.Empty(t, facts.OpenFlags.OrZero())
	})
}

func TestCalculateScore_Execute(t *testing.T) {
	t.Run("brand-new identity scores eight and is stored", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})

		score, err := f.calculate().Execute(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, 8, score.Total)
		assert.Equal(t, 8, score.ReputationScore)
		assert.Equal(t, 1, f.scores.upserts)
		assert.Equal(t, []string{event.EventTypeScoreRecalculated}, f.publisher.types())
	})

	t.Run("unknown identity is not found", func(t *testing.T) {
		f := newFixture()

		_, err := f.calculate().Execute(context.Background(), uuid.New())

		assert.ErrorIs(t, err, model.ErrIdentityNotFound)
		assert.Equal(t, 0, f.scores.upserts)
	})

	t.Run("upsert failure still returns the computed score", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{EmailVerified: true})
		f.scores.upsertFunc = func(_ context.Context, _ *model.TrustScore) error {
			return fmt.Errorf("disk full")
		}

		score, err := f.calculate().Execute(context.Background(), id)

		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrPersistence)
		require.NotNil(t, score)
		assert.Equal(t, 20, score.Total)
		assert.Empty(t, f.publisher.types(), "nothing is announced for an unstored score")
	})

	t.Run("publish failure does not fail the computation", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		f.publisher.publishFunc = func(_ context.Context, _ ...events.DomainEvent) error {
			return fmt.Errorf("broker down")
		}

		score, err := f.calculate().Execute(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, 8, score.Total)
	})
}

func TestRecalculateScore_Execute(t *testing.T) {
	t.Run("is idempotent without state changes", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{EmailVerified: true, HasAvatar: true})
		uc := usecase.NewRecalculateScore(f.calculate())

		first, err := uc.Execute(context.Background(), id)
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), id)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 2, f.scores.upserts)
	})

	t.Run("surfaces persistence failure with the computed score", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{EmailVerified: true})
		f.scores.upsertFunc = func(_ context.Context, _ *model.TrustScore) error {
			return fmt.Errorf("disk full")
		}

		resp, err := usecase.NewRecalculateScore(f.calculate()).Execute(context.Background(), id)

		assert.ErrorIs(t, err, model.ErrPersistence)
		assert.Equal(t, id, resp.IdentityID)
		assert.Equal(t, 20, resp.Total)
	})

	t.Run("unknown identity is not found", func(t *testing.T) {
		f := newFixture()

		_, err := usecase.NewRecalculateScore(f.calculate()).Execute(context.Background(), uuid.New())

		assert.ErrorIs(t, err, model.ErrIdentityNotFound)
	})
}

func TestGetTrustScore_Execute(t *testing.T) {
	newGet := func(f *fixture) *usecase.GetTrustScore {
		return usecase.NewGetTrustScore(f.scores, f.calculate(), 0, f.logger)
	}

	t.Run("computes on first read", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})

		resp, err := newGet(f).Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})

		require.NoError(t, err)
		assert.Equal(t, 8, resp.Total)
		assert.Equal(t, 1, f.scores.upserts)
	})

	t.Run("reads within max age share calculated_at", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		uc := newGet(f)

		first, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		f.clock.Advance(4 * time.Minute)
		second, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		assert.Equal(t, first.CalculatedAt, second.CalculatedAt)
		assert.Equal(t, 1, f.scores.upserts, "a fresh read does not write")
	})

	t.Run("calculated_at survives a microsecond column round trip", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		f.scores.upsertFunc = func(_ context.Context, score *model.TrustScore) error {
			cp := *score
			cp.CalculatedAt = cp.CalculatedAt.Truncate(time.Microsecond)
			f.scores.mu.Lock()
			defer f.scores.mu.Unlock()
			f.scores.scores[cp.IdentityID] = &cp
			return nil
		}
		calculate := usecase.NewCalculateScore(
			f.collector(), service.NewAggregator(), f.scores, f.publisher, f.logger,
		)
		uc := usecase.NewGetTrustScore(f.scores, calculate, 0, f.logger)

		first, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)
		second, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		assert.Equal(t, first.CalculatedAt, second.CalculatedAt)
	})

	t.Run("read after max age recomputes", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		uc := newGet(f)

		first, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		f.clock.Advance(usecase.DefaultScoreMaxAge)
		second, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		assert.True(t, second.CalculatedAt.After(first.CalculatedAt))
		assert.Equal(t, 2, f.scores.upserts)
	})

	t.Run("request max age overrides the default", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		uc := newGet(f)

		_, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		f.clock.Advance(30 * time.Second)
		_, err = uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id, MaxAge: 10 * time.Second})
		require.NoError(t, err)

		assert.Equal(t, 2, f.scores.upserts)
	})

	t.Run("unknown identity is not found", func(t *testing.T) {
		f := newFixture()

		_, err := newGet(f).Execute(context.Background(), dto.GetScoreRequest{IdentityID: uuid.New()})

		assert.True(t, errors.Is(err, model.ErrIdentityNotFound))
	})

	t.Run("persistence failure still returns the computed score", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		f.scores.upsertFunc = func(_ context.Context, _ *model.TrustScore) error {
			return fmt.Errorf("read-only replica")
		}

		resp, err := newGet(f).Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})

		require.NoError(t, err)
		assert.Equal(t, 8, resp.Total)
	})

	t.Run("stale score is served when recompute fails", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		uc := newGet(f)

		first, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})
		require.NoError(t, err)

		f.clock.Advance(time.Hour)
		f.identities.findFunc = func(_ context.Context, _ uuid.UUID) (*model.Identity, error) {
			return nil, fmt.Errorf("connection reset")
		}

		stale, err := uc.Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})

		require.NoError(t, err)
		assert.Equal(t, first.CalculatedAt, stale.CalculatedAt)
	})

	t.Run("recompute failure without a stored score is an error", func(t *testing.T) {
		f := newFixture()
		f.identities.findFunc = func(_ context.Context, _ uuid.UUID) (*model.Identity, error) {
			return nil, fmt.Errorf("connection reset")
		}

		_, err := newGet(f).Execute(context.Background(), dto.GetScoreRequest{IdentityID: uuid.New()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to calculate trust score")
	})

	t.Run("score store read failure falls back to recompute", func(t *testing.T) {
		f := newFixture()
		id := f.addIdentity(model.Identity{})
		f.scores.findErr = fmt.Errorf("timeout")

		resp, err := newGet(f).Execute(context.Background(), dto.GetScoreRequest{IdentityID: id})

		require.NoError(t, err)
		assert.Equal(t, 8, resp.Total)
	})
}
