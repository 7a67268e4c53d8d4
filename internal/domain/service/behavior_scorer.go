package service

import (
	"time"

	"github.com/monostock/trust/internal/domain/model"
)

const day = 24 * time.Hour

// BehaviorScorer rewards messaging, engagement and recent activity.
type BehaviorScorer struct{}

// NewBehaviorScorer creates a new BehaviorScorer instance.
func NewBehaviorScorer() *BehaviorScorer {
	return &BehaviorScorer{}
}

// Score awards up to 20 points.
func (s *BehaviorScorer) Score(facts model.Facts, now time.Time) model.CategoryScore {
	details := make(map[string]int)
	raw := 0

	award := func(key string, points int) {
		if points <= 0 {
			return
		}
		details[key] = points
		raw += points
	}

	messages := facts.Messages.OrZero()
	award("messages_sent", minInt(messages.Sent/5, 6))
	award("messages_received", minInt(messages.Received/5, 4))
	award("engagements", minInt(facts.Engagements.OrZero()/2, 6))
	award("recency", recencyPoints(facts.Identity.LastActiveAt, now))

	return model.NewCategoryScore(raw, model.BehaviorMax, details)
}

// recencyPoints grades the last activity: within 7 days 4, 30 days 2, 90 days 1.
func recencyPoints(lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return 0
	}
	since := now.Sub(*lastActive)
	switch {
	case since <= 7*day:
		return 4
	case since <= 30*day:
		return 2
	case since <= 90*day:
		return 1
	default:
		return 0
	}
}
