package model

import (
	"time"

	"github.com/google/uuid"
)

// Category caps. They sum to MaxTotal.
const (
	IdentityMax   = 40
	BusinessMax   = 30
	BehaviorMax   = 20
	ReputationMax = 10
	MaxTotal      = IdentityMax + BusinessMax + BehaviorMax + ReputationMax
)

// CategoryScore is one category's contribution. Score is Raw clamped into [0, Max].
type CategoryScore struct {
	Details map[string]int `json:"details"`
	Score   int            `json:"score"`
	Max     int            `json:"max"`
	Raw     int            `json:"-"`
}

// NewCategoryScore clamps raw into [0, limit].
func NewCategoryScore(raw, limit int, details map[string]int) CategoryScore {
	if details == nil {
		details = map[string]int{}
	}
	return CategoryScore{
		Score:   clamp(raw, 0, limit),
		Max:     limit,
		Raw:     raw,
		Details: details,
	}
}

// PenaltyItem is the deduction attributed to a single open flag.
type PenaltyItem struct {
	FlagID   uuid.UUID `json:"flag_id"`
	Type     string    `json:"type"`
	Severity string    `json:"severity"`
	Points   int       `json:"points"`
}

// PenaltySummary is the total deduction from open flags. It is not capped.
type PenaltySummary struct {
	Items []PenaltyItem `json:"items"`
	Total int           `json:"total"`
}

// Breakdown is the audit trail of how a total was reached.
type Breakdown struct {
	Identity   CategoryScore  `json:"identity"`
	Business   CategoryScore  `json:"business"`
	Behavior   CategoryScore  `json:"behavior"`
	Reputation CategoryScore  `json:"reputation"`
	Penalties  PenaltySummary `json:"penalties"`
}

// TrustScore is the persisted result of a computation, one per identity.
// Each computation overwrites the previous one.
type TrustScore struct {
	CalculatedAt    time.Time `json:"calculated_at"`
	Breakdown       Breakdown `json:"breakdown"`
	Total           int       `json:"total"`
	IdentityScore   int       `json:"identity_score"`
	BusinessScore   int       `json:"business_score"`
	BehaviorScore   int       `json:"behavior_score"`
	ReputationScore int       `json:"reputation_score"`
	Penalties       int       `json:"penalties"`
	IdentityID      uuid.UUID `json:"identity_id"`
}

// IsFresh reports whether the score was computed less than maxAge before now.
func (s *TrustScore) IsFresh(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.CalculatedAt) < maxAge
}

// RawTotal is the sum of the clamped category scores before penalties.
func (s *TrustScore) RawTotal() int {
	return s.IdentityScore + s.BusinessScore + s.BehaviorScore + s.ReputationScore
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
