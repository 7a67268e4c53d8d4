package service

import (
	"time"

	"github.com/monostock/trust/internal/domain/model"
)

// Aggregator combines the four category scores and the open-flag penalties
// into a single trust score.
type Aggregator struct {
	identity   CategoryScorer
	business   CategoryScorer
	behavior   CategoryScorer
	reputation CategoryScorer
	penalties  *PenaltyCalculator
}

// NewAggregator creates an Aggregator with the standard scorers.
func NewAggregator() *Aggregator {
	return NewAggregatorWithScorers(
		NewIdentityScorer(),
		NewBusinessScorer(),
		NewBehaviorScorer(),
		NewReputationScorer(),
	)
}

// NewAggregatorWithScorers creates an Aggregator from explicit category scorers.
func NewAggregatorWithScorers(identity, business, behavior, reputation CategoryScorer) *Aggregator {
	return &Aggregator{
		identity:   identity,
		business:   business,
		behavior:   behavior,
		reputation: reputation,
		penalties:  NewPenaltyCalculator(),
	}
}

// Aggregate computes the trust score for facts as of now. It does not persist anything.
// CalculatedAt is kept at microsecond precision so stored copies compare equal.
func (a *Aggregator) Aggregate(facts model.Facts, now time.Time) *model.TrustScore {
	identity := a.identity.Score(facts, now)
	business := a.business.Score(facts, now)
	behavior := a.behavior.Score(facts, now)
	reputation := a.reputation.Score(facts, now)
	penalties := a.penalties.Calculate(facts.OpenFlags.OrZero())

	raw := identity.Score + business.Score + behavior.Score + reputation.Score

	total := raw - penalties.Total
	if total < 0 {
		total = 0
	}
	total = minInt(total, model.MaxTotal)

	return &model.TrustScore{
		IdentityID:      facts.Identity.ID,
		Total:           total,
		IdentityScore:   identity.Score,
		BusinessScore:   business.Score,
		BehaviorScore:   behavior.Score,
		ReputationScore: reputation.Score,
		Penalties:       penalties.Total,
		Breakdown: model.Breakdown{
			Identity:   identity,
			Business:   business,
			Behavior:   behavior,
			Reputation: reputation,
			Penalties:  penalties,
		},
		CalculatedAt: now.UTC().Truncate(time.Microsecond),
	}
}
