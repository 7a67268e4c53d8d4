package service

import (
	"time"

	"github.com/monostock/trust/internal/domain/model"
)

const accountAgeStep = 30 * 24 * time.Hour

// IdentityScorer rewards verified contact points and account age.
type IdentityScorer struct{}

// NewIdentityScorer creates a new IdentityScorer instance.
func NewIdentityScorer() *IdentityScorer {
	return &IdentityScorer{}
}

// Score awards up to 40 points for verification state.
func (s *IdentityScorer) Score(facts model.Facts, now time.Time) model.CategoryScore {
	id := facts.Identity
	details := make(map[string]int)
	raw := 0

	award := func(key string, points int) {
		details[key] = points
		raw += points
	}

	if id.EmailVerified {
		award("email_verified", 12)
	}
	if id.DomainVerified {
		award("domain_verified", 12)
	}
	if id.VerificationBadge {
		award("verification_badge", 6)
	}

	// Rule: +1 per full 30 days since creation, capped at 6.
	if !id.CreatedAt.IsZero() && now.After(id.CreatedAt) {
		if months := minInt(int(now.Sub(id.CreatedAt)/accountAgeStep), 6); months > 0 {
			award("account_age", months)
		}
	}

	if id.HasAvatar {
		award("avatar", 4)
	}

	return model.NewCategoryScore(raw, model.IdentityMax, details)
}
