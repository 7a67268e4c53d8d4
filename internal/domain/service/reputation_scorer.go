package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/valueobject"
)

// NeutralAcceptanceAward is granted when no incoming request has been answered yet.
const NeutralAcceptanceAward = 3

// ReputationScorer rewards peers accepting the identity and a clean moderation record.
type ReputationScorer struct{}

// NewReputationScorer creates a new ReputationScorer instance.
func NewReputationScorer() *ReputationScorer {
	return &ReputationScorer{}
}

// Score awards up to 10 points.
func (s *ReputationScorer) Score(facts model.Facts, _ time.Time) model.CategoryScore {
	id := facts.Identity.ID
	connections := facts.Connections.OrZero()

	acceptance := acceptanceAward(id, connections)
	blockAvoidance := blockAvoidance(id, connections)

	clean := 2
	for _, f := range facts.OpenFlags.OrZero() {
		if f != nil && !f.Resolved() {
			clean = 0
			break
		}
	}

	details := map[string]int{
		"acceptance_rate": acceptance,
		"block_avoidance": blockAvoidance,
		"clean_record":    clean,
	}

	return model.NewCategoryScore(acceptance+blockAvoidance+clean, model.ReputationMax, details)
}

// acceptanceAward is round(accepted/(accepted+declined) * 5) over requests received,
// rounding halves up. Pending requests are not counted.
func acceptanceAward(id uuid.UUID, connections []model.Connection) int {
	var accepted, declined int64
	for _, c := range connections {
		if c.ReceiverID != id {
			continue
		}
		switch c.Status {
		case valueobject.ConnectionConnected:
			accepted++
		case valueobject.ConnectionDeclined:
			declined++
		}
	}

	if accepted+declined == 0 {
		return NeutralAcceptanceAward
	}

	award := decimal.NewFromInt(accepted).
		Mul(decimal.NewFromInt(5)).
		Div(decimal.NewFromInt(accepted + declined)).
		Round(0)

	return int(award.IntPart())
}

// blockAvoidance starts at 3 and loses 2 per distinct counterpart on a blocked edge.
func blockAvoidance(id uuid.UUID, connections []model.Connection) int {
	blockers := make(map[uuid.UUID]struct{})
	for _, c := range connections {
		if c.Status == valueobject.ConnectionBlocked && c.Touches(id) {
			blockers[c.Counterpart(id)] = struct{}{}
		}
	}

	points := 3 - 2*len(blockers)
	if points < 0 {
		return 0
	}
	return points
}
