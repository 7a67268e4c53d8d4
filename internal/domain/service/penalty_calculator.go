package service

import (
	"github.com/monostock/trust/internal/domain/model"
)

// PenaltyCalculator sums the deductions for open flags.
type PenaltyCalculator struct{}

// NewPenaltyCalculator creates a new PenaltyCalculator instance.
func NewPenaltyCalculator() *PenaltyCalculator {
	return &PenaltyCalculator{}
}

// Calculate returns the uncapped penalty total. Resolved flags are skipped.
func (c *PenaltyCalculator) Calculate(flags []*model.Flag) model.PenaltySummary {
	summary := model.PenaltySummary{Items: make([]model.PenaltyItem, 0, len(flags))}

	for _, f := range flags {
		if f == nil || f.Resolved() {
			continue
		}
		points := f.PenaltyPoints()
		summary.Items = append(summary.Items, model.PenaltyItem{
			FlagID:   f.ID(),
			Type:     f.Type(),
			Severity: f.Severity().String(),
			Points:   points,
		})
		summary.Total += points
	}

	return summary
}
