package service

import (
	"time"

	"github.com/monostock/trust/internal/domain/model"
)

// CategoryScorer computes one category of the trust score from collected facts.
// Implementations are pure: the same facts and clock always give the same result.
type CategoryScorer interface {
	Score(facts model.Facts, now time.Time) model.CategoryScore
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
