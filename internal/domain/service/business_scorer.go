package service

import (
	"strings"
	"time"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/valueobject"
)

// BusinessScorer rewards a complete business profile and an established network.
type BusinessScorer struct{}

// NewBusinessScorer creates a new BusinessScorer instance.
func NewBusinessScorer() *BusinessScorer {
	return &BusinessScorer{}
}

// Score awards up to 30 points. Identities without a profile score 0.
func (s *BusinessScorer) Score(facts model.Facts, _ time.Time) model.CategoryScore {
	profile, ok := facts.Profile.Get()
	if !ok {
		return model.NewCategoryScore(0, model.BusinessMax, nil)
	}

	details := make(map[string]int)
	raw := 0

	award := func(key string, points int) {
		if points <= 0 {
			return
		}
		details[key] = points
		raw += points
	}

	if strings.TrimSpace(profile.CompanyName) != "" {
		award("company_name", 3)
	}
	if profile.HasLogo {
		award("logo", 3)
	}

	// Rule: description length, long beats medium.
	switch {
	case profile.DescriptionLength > 200:
		award("description", 4)
	case profile.DescriptionLength > 50:
		award("description", 2)
	}

	award("industry_tags", minInt(len(profile.IndustryTags), 3))

	location := 0
	for _, present := range []bool{profile.HasCity, profile.HasState, profile.HasCountry} {
		if present {
			location++
		}
	}
	award("location", location)

	switch {
	case !profile.BusinessTypeSet():
	case profile.HasDefaultBusinessType():
		award("business_type", 1)
	default:
		award("business_type", 2)
	}

	// Rule: +2 per accepted connection in either direction, capped at 12.
	accepted := 0
	for _, c := range facts.Connections.OrZero() {
		if c.Status == valueobject.ConnectionConnected && c.Touches(facts.Identity.ID) {
			accepted++
		}
	}
	award("connections", minInt(accepted*2, 12))

	return model.NewCategoryScore(raw, model.BusinessMax, details)
}
