package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/event"
	"github.com/monostock/trust/internal/domain/valueobject"
	"github.com/monostock/trust/pkg/events"
)

// Flag is the aggregate root for a misconduct report against an identity.
// A flag moves from open to resolved exactly once and is never deleted.
type Flag struct {
	createdAt  time.Time
	updatedAt  time.Time
	resolvedAt *time.Time
	severity   valueobject.Severity
	flagType   string
	reason     string
	pending    events.EventCollector
	id         uuid.UUID
	subjectID  uuid.UUID
	createdBy  uuid.UUID
	resolved   bool
}

// NewFlag raises an open flag against subjectID on behalf of createdBy.
func NewFlag(
	subjectID uuid.UUID,
	createdBy uuid.UUID,
	flagType string,
	reason string,
	severity valueobject.Severity,
) (*Flag, error) {
	if subjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: subject ID is required", ErrInvalidInput)
	}
	if createdBy == uuid.Nil {
		return nil, fmt.Errorf("%w: creator ID is required", ErrInvalidInput)
	}
	if subjectID == createdBy {
		return nil, fmt.Errorf("%w: an identity cannot flag itself", ErrInvalidInput)
	}
	flagType = strings.TrimSpace(flagType)
	if flagType == "" {
		return nil, fmt.Errorf("%w: flag type is required", ErrInvalidInput)
	}
	if severity.IsZero() {
		severity = valueobject.SeverityLow
	}

	now := time.Now().UTC()

	f := &Flag{
		id:        uuid.New(),
		subjectID: subjectID,
		createdBy: createdBy,
		flagType:  flagType,
		reason:    reason,
		severity:  severity,
		createdAt: now,
		updatedAt: now,
	}

	f.pending.Record(event.NewFlagRaised(
		f.id, f.subjectID, f.createdBy, f.flagType, f.severity.String(), now,
	))

	return f, nil
}

// Resolve closes the flag. It reports false when the flag was already resolved,
// in which case nothing changes.
func (f *Flag) Resolve() bool {
	if f.resolved {
		return false
	}

	now := time.Now().UTC()
	f.resolved = true
	f.resolvedAt = &now
	f.updatedAt = now

	f.pending.Record(event.NewFlagResolved(f.id, f.subjectID, now))

	return true
}

// PenaltyPoints is the score deduction this flag carries while open.
func (f *Flag) PenaltyPoints() int {
	if f.resolved {
		return 0
	}
	return f.severity.Points()
}

// ReconstructFlag rebuilds a Flag from persisted data (no validation, no events).
func ReconstructFlag(
	id, subjectID, createdBy uuid.UUID,
	flagType, reason string,
	severity valueobject.Severity,
	resolved bool,
	resolvedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Flag {
	return &Flag{
		id:         id,
		subjectID:  subjectID,
		createdBy:  createdBy,
		flagType:   flagType,
		reason:     reason,
		severity:   severity,
		resolved:   resolved,
		resolvedAt: resolvedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// --- Accessors ---

func (f *Flag) ID() uuid.UUID                  { return f.id }
func (f *Flag) SubjectID() uuid.UUID           { return f.subjectID }
func (f *Flag) CreatedBy() uuid.UUID           { return f.createdBy }
func (f *Flag) Type() string                   { return f.flagType }
func (f *Flag) Reason() string                 { return f.reason }
func (f *Flag) Severity() valueobject.Severity { return f.severity }
func (f *Flag) Resolved() bool                 { return f.resolved }
func (f *Flag) ResolvedAt() *time.Time         { return f.resolvedAt }
func (f *Flag) CreatedAt() time.Time           { return f.createdAt }
func (f *Flag) UpdatedAt() time.Time           { return f.updatedAt }

// DomainEvents returns all accumulated domain events and clears them.
func (f *Flag) DomainEvents() []events.DomainEvent {
	return f.pending.ClearEvents()
}
