package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/application/dto"
)

// RecalculateScore forces a recomputation regardless of freshness.
type RecalculateScore struct {
	calculate *CalculateScore
}

// NewRecalculateScore creates a new RecalculateScore use case.
func NewRecalculateScore(calculate *CalculateScore) *RecalculateScore {
	return &RecalculateScore{calculate: calculate}
}

// Execute recomputes the score. On a persistence failure the computed score is
// returned along with the error.
func (uc *RecalculateScore) Execute(ctx context.Context, identityID uuid.UUID) (dto.ScoreResponse, error) {
	score, err := uc.calculate.Execute(ctx, identityID)
	if score == nil {
		return dto.ScoreResponse{}, err
	}
	return dto.FromScore(score), err
}
