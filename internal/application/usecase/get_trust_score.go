package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
)

// DefaultScoreMaxAge is how long a stored score is served without recomputing.
const DefaultScoreMaxAge = 5 * time.Minute

// GetTrustScore returns a stored score while it is fresh and recomputes it otherwise.
type GetTrustScore struct {
	scores        port.ScoreRepository
	calculate     *CalculateScore
	logger        *slog.Logger
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	defaultMaxAge time.Duration
}

// NewGetTrustScore creates a new GetTrustScore use case. A non-positive
// defaultMaxAge selects DefaultScoreMaxAge.
func NewGetTrustScore(
	scores port.ScoreRepository,
	calculate *CalculateScore,
	defaultMaxAge time.Duration,
	logger *slog.Logger,
) *GetTrustScore {
	if defaultMaxAge <= 0 {
		defaultMaxAge = DefaultScoreMaxAge
	}

	meter := otel.Meter("trust/usecase")
	hits, _ := meter.Int64Counter("trust_score_cache_hits_total",
		metric.WithDescription("Stored trust scores served without recomputation"))
	misses, _ := meter.Int64Counter("trust_score_cache_misses_total",
		metric.WithDescription("Trust score reads that triggered a recomputation"))

	return &GetTrustScore{
		scores:        scores,
		calculate:     calculate,
		logger:        logger,
		hits:          hits,
		misses:        misses,
		defaultMaxAge: defaultMaxAge,
	}
}

// Execute returns the identity's trust score. A stale score is preferred over
// an error; only a missing identity fails hard.
func (uc *GetTrustScore) Execute(ctx context.Context, req dto.GetScoreRequest) (dto.ScoreResponse, error) {
	ctx, span := tracer.Start(ctx, "GetTrustScore.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("identity_id", req.IdentityID.String()))

	maxAge := req.MaxAge
	if maxAge <= 0 {
		maxAge = uc.defaultMaxAge
	}

	stored, err := uc.scores.FindByIdentityID(ctx, req.IdentityID)
	if err != nil {
		uc.logger.Warn("failed to read stored trust score",
			slog.String("identity_id", req.IdentityID.String()),
			slog.String("error", err.Error()),
		)
		stored = nil
	}

	if stored != nil && stored.IsFresh(uc.calculate.now(), maxAge) {
		uc.count(ctx, uc.hits)
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return dto.FromScore(stored), nil
	}
	uc.count(ctx, uc.misses)

	score, err := uc.calculate.Execute(ctx, req.IdentityID)
	switch {
	case err == nil:
		return dto.FromScore(score), nil
	case errors.Is(err, model.ErrPersistence) && score != nil:
		// Computed but not stored; the next read recomputes.
		return dto.FromScore(score), nil
	case errors.Is(err, model.ErrIdentityNotFound):
		return dto.ScoreResponse{}, err
	case stored != nil:
		uc.logger.Warn("recompute failed, serving stale trust score",
			slog.String("identity_id", req.IdentityID.String()),
			slog.Time("calculated_at", stored.CalculatedAt),
			slog.String("error", err.Error()),
		)
		return dto.FromScore(stored), nil
	default:
		return dto.ScoreResponse{}, fmt.Errorf("failed to calculate trust score: %w", err)
	}
}

func (uc *GetTrustScore) count(ctx context.Context, c metric.Int64Counter) {
	if c != nil {
		c.Add(ctx, 1)
	}
}
