package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/monostock/trust/internal/domain/event"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
	"github.com/monostock/trust/internal/domain/service"
)

// CalculateScore collects facts, aggregates them and stores the result.
type CalculateScore struct {
	collector  *FactCollector
	aggregator *service.Aggregator
	scores     port.ScoreRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
	now        Clock
}

// NewCalculateScore creates a new CalculateScore use case.
func NewCalculateScore(
	collector *FactCollector,
	aggregator *service.Aggregator,
	scores port.ScoreRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CalculateScore {
	return &CalculateScore{
		collector:  collector,
		aggregator: aggregator,
		scores:     scores,
		publisher:  publisher,
		logger:     logger,
		now:        systemClock,
	}
}

// WithClock replaces the time source.
func (uc *CalculateScore) WithClock(c Clock) *CalculateScore {
	uc.now = c
	return uc
}

// Execute computes and upserts the trust score for an identity.
//
// When the upsert fails the computed score is still returned together with an
// error wrapping model.ErrPersistence.
func (uc *CalculateScore) Execute(ctx context.Context, identityID uuid.UUID) (*model.TrustScore, error) {
	ctx, span := tracer.Start(ctx, "CalculateScore.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("identity_id", identityID.String()))

	facts, err := uc.collector.Collect(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect facts: %w", err)
	}
	if facts == nil {
		return nil, model.ErrIdentityNotFound
	}

	score := uc.aggregator.Aggregate(*facts, uc.now())
	span.SetAttributes(attribute.Int("total", score.Total))

	if err := uc.scores.Upsert(ctx, score); err != nil {
		uc.logger.Error("failed to store trust score",
			slog.String("identity_id", identityID.String()),
			slog.String("error", err.Error()),
		)
		return score, fmt.Errorf("failed to upsert trust score: %w: %w", model.ErrPersistence, err)
	}

	evt := event.NewScoreRecalculated(
		score.IdentityID, score.Total,
		score.IdentityScore, score.BusinessScore, score.BehaviorScore, score.ReputationScore,
		score.Penalties, score.CalculatedAt,
	)
	publishLogged(ctx, uc.publisher, uc.logger, evt)

	return score, nil
}
