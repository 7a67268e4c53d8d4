package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/model"
)

// GetScoreRequest is the input DTO for the GetTrustScore use case.
// A zero MaxAge selects the configured default.
type GetScoreRequest struct {
	MaxAge     time.Duration `json:"max_age"`
	IdentityID uuid.UUID     `json:"identity_id"`
}

// ScoreResponse is the output DTO for a trust score.
type ScoreResponse struct {
	CalculatedAt    time.Time       `json:"calculated_at"`
	Breakdown       model.Breakdown `json:"breakdown"`
	Total           int             `json:"total"`
	IdentityScore   int             `json:"identity_score"`
	BusinessScore   int             `json:"business_score"`
	BehaviorScore   int             `json:"behavior_score"`
	ReputationScore int             `json:"reputation_score"`
	Penalties       int             `json:"penalties"`
	IdentityID      uuid.UUID       `json:"identity_id"`
}

// FromScore maps a domain trust score to the response DTO.
func FromScore(s *model.TrustScore) ScoreResponse {
	return ScoreResponse{
		IdentityID:      s.IdentityID,
		Total:           s.Total,
		IdentityScore:   s.IdentityScore,
		BusinessScore:   s.BusinessScore,
		BehaviorScore:   s.BehaviorScore,
		ReputationScore: s.ReputationScore,
		Penalties:       s.Penalties,
		Breakdown:       s.Breakdown,
		CalculatedAt:    s.CalculatedAt,
	}
}

// AddFlagRequest is the input DTO for the AddFlag use case.
type AddFlagRequest struct {
	Type      string    `json:"type"`
	Reason    string    `json:"reason"`
	Severity  string    `json:"severity"`
	SubjectID uuid.UUID `json:"subject_id"`
	CreatedBy uuid.UUID `json:"created_by"`
}

// ListFlagsRequest is the input DTO for the ListFlags use case.
type ListFlagsRequest struct {
	SubjectID       uuid.UUID `json:"subject_id"`
	IncludeResolved bool      `json:"include_resolved"`
}

// FlagResponse is the output DTO for a flag.
type FlagResponse struct {
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	Type       string     `json:"type"`
	Reason     string     `json:"reason"`
	Severity   string     `json:"severity"`
	ID         uuid.UUID  `json:"id"`
	SubjectID  uuid.UUID  `json:"subject_id"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	Resolved   bool       `json:"resolved"`
}

// FromFlag maps a domain flag to the response DTO.
func FromFlag(f *model.Flag) FlagResponse {
	return FlagResponse{
		ID:         f.ID(),
		SubjectID:  f.SubjectID(),
		CreatedBy:  f.CreatedBy(),
		Type:       f.Type(),
		Reason:     f.Reason(),
		Severity:   f.Severity().String(),
		Resolved:   f.Resolved(),
		ResolvedAt: f.ResolvedAt(),
		CreatedAt:  f.CreatedAt(),
		UpdatedAt:  f.UpdatedAt(),
	}
}

// ResolveFlagResponse is the output DTO for the ResolveFlag use case.
type ResolveFlagResponse struct {
	Success bool `json:"success"`
}
