package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/pkg/events"
)

// IdentityReader reads identity verification state.
type IdentityReader interface {
	// FindByID returns nil, nil when the identity does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Identity, error)
}

// ProfileReader reads business profiles.
type ProfileReader interface {
	// FindByIdentityID returns nil, nil when the identity has no profile.
	FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.BusinessProfile, error)
}

// ConnectionReader reads the connection graph.
type ConnectionReader interface {
	// ListTouching returns every edge where the identity is requester or receiver.
	ListTouching(ctx context.Context, identityID uuid.UUID) ([]model.Connection, error)
}

// MessageCounterReader reads aggregate message counts.
type MessageCounterReader interface {
	Counters(ctx context.Context, identityID uuid.UUID) (model.MessageCounters, error)
}

// EngagementReader counts engagement records (orders) attributed to an identity.
type EngagementReader interface {
	CountEngagements(ctx context.Context, identityID uuid.UUID) (int, error)
}

// FlagRepository defines the persistence port for misconduct flags.
type FlagRepository interface {
	// Save inserts or updates a flag.
	Save(ctx context.Context, flag *model.Flag) error

	// FindByID returns nil, nil when the flag does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Flag, error)

	// ListBySubject returns flags raised against the subject, newest first.
	ListBySubject(ctx context.Context, subjectID uuid.UUID, includeResolved bool) ([]*model.Flag, error)
}

// ScoreRepository defines the persistence port for trust scores, one row per identity.
type ScoreRepository interface {
	// Upsert stores the score, replacing any previous score for the identity.
	Upsert(ctx context.Context, score *model.TrustScore) error

	// FindByIdentityID returns nil, nil when no score has been stored yet.
	FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.TrustScore, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// RecomputeScheduler queues a forced recompute of an identity's score without
// waiting for it. Implementations must not block the caller.
type RecomputeScheduler interface {
	Schedule(ctx context.Context, identityID uuid.UUID)
}
