package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/monostock/trust/pkg/events"
)

const (
	// EventTypeScoreRecalculated is emitted every time a trust score is computed and stored.
	EventTypeScoreRecalculated = "trust.score.recalculated"

	// EventTypeFlagRaised is emitted when a misconduct flag is opened.
	EventTypeFlagRaised = "trust.flag.raised"

	// EventTypeFlagResolved is emitted when an open flag is resolved.
	EventTypeFlagResolved = "trust.flag.resolved"

	aggregateTypeTrustScore = "TrustScore"
	aggregateTypeFlag       = "Flag"
)

// ScoreRecalculated is published after a trust score has been recomputed.
type ScoreRecalculated struct {
	events.BaseEvent
	CalculatedAt    time.Time `json:"calculated_at"`
	IdentityID      uuid.UUID `json:"identity_id"`
	Total           int       `json:"total"`
	IdentityScore   int       `json:"identity_score"`
	BusinessScore   int       `json:"business_score"`
	BehaviorScore   int       `json:"behavior_score"`
	ReputationScore int       `json:"reputation_score"`
	Penalties       int       `json:"penalties"`
}

// NewScoreRecalculated builds a ScoreRecalculated event keyed by the identity.
func NewScoreRecalculated(
	identityID uuid.UUID,
	total, identityScore, businessScore, behaviorScore, reputationScore, penalties int,
	calculatedAt time.Time,
) ScoreRecalculated {
	e := ScoreRecalculated{
		IdentityID:      identityID,
		Total:           total,
		IdentityScore:   identityScore,
		BusinessScore:   businessScore,
		BehaviorScore:   behaviorScore,
		ReputationScore: reputationScore,
		Penalties:       penalties,
		CalculatedAt:    calculatedAt,
	}
	e.BaseEvent = events.NewBaseEvent(EventTypeScoreRecalculated, identityID, aggregateTypeTrustScore, marshal(e))
	return e
}

// FlagRaised is published when a moderator opens a flag against an identity.
type FlagRaised struct {
	events.BaseEvent
	RaisedAt  time.Time `json:"raised_at"`
	FlagType  string    `json:"flag_type"`
	Severity  string    `json:"severity"`
	FlagID    uuid.UUID `json:"flag_id"`
	SubjectID uuid.UUID `json:"subject_id"`
	CreatedBy uuid.UUID `json:"created_by"`
}

// NewFlagRaised builds a FlagRaised event keyed by the flag.
func NewFlagRaised(flagID, subjectID, createdBy uuid.UUID, flagType, severity string, raisedAt time.Time) FlagRaised {
	e := FlagRaised{
		FlagID:    flagID,
		SubjectID: subjectID,
		CreatedBy: createdBy,
		FlagType:  flagType,
		Severity:  severity,
		RaisedAt:  raisedAt,
	}
	e.BaseEvent = events.NewBaseEvent(EventTypeFlagRaised, flagID, aggregateTypeFlag, marshal(e))
	return e
}

// FlagResolved is published when a flag transitions to resolved.
type FlagResolved struct {
	events.BaseEvent
	ResolvedAt time.Time `json:"resolved_at"`
	FlagID     uuid.UUID `json:"flag_id"`
	SubjectID  uuid.UUID `json:"subject_id"`
}

// NewFlagResolved builds a FlagResolved event keyed by the flag.
func NewFlagResolved(flagID, subjectID uuid.UUID, resolvedAt time.Time) FlagResolved {
	e := FlagResolved{
		FlagID:     flagID,
		SubjectID:  subjectID,
		ResolvedAt: resolvedAt,
	}
	e.BaseEvent = events.NewBaseEvent(EventTypeFlagResolved, flagID, aggregateTypeFlag, marshal(e))
	return e
}

// marshal never fails for the flat payloads above.
func marshal(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
