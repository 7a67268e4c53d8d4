package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
)

// FactCollector gathers everything the scorers need about one identity.
// Only the identity read is mandatory; every other source degrades to absent.
type FactCollector struct {
	identities  port.IdentityReader
	profiles    port.ProfileReader
	connections port.ConnectionReader
	messages    port.MessageCounterReader
	engagements port.EngagementReader
	flags       port.FlagRepository
	logger      *slog.Logger
}

// NewFactCollector creates a new FactCollector.
func NewFactCollector(
	identities port.IdentityReader,
	profiles port.ProfileReader,
	connections port.ConnectionReader,
	messages port.MessageCounterReader,
	engagements port.EngagementReader,
	flags port.FlagRepository,
	logger *slog.Logger,
) *FactCollector {
	return &FactCollector{
		identities:  identities,
		profiles:    profiles,
		connections: connections,
		messages:    messages,
		engagements: engagements,
		flags:       flags,
		logger:      logger,
	}
}

// Collect returns nil, nil when the identity does not exist.
func (c *FactCollector) Collect(ctx context.Context, identityID uuid.UUID) (*model.Facts, error) {
	identity, err := c.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, nil
	}

	facts := &model.Facts{Identity: *identity}

	if profile, err := c.profiles.FindByIdentityID(ctx, identityID); err != nil {
		c.sourceUnavailable(identityID, "business_profile", err)
	} else if profile != nil {
		facts.Profile = model.Some(*profile)
	}

	if conns, err := c.connections.ListTouching(ctx, identityID); err != nil {
		c.sourceUnavailable(identityID, "connections", err)
	} else {
		facts.Connections = model.Some(conns)
	}

	if counters, err := c.messages.Counters(ctx, identityID); err != nil {
		c.sourceUnavailable(identityID, "message_counters", err)
	} else {
		facts.Messages = model.Some(counters)
	}

	if n, err := c.engagements.CountEngagements(ctx, identityID); err != nil {
		c.sourceUnavailable(identityID, "engagements", err)
	} else {
		facts.Engagements = model.Some(n)
	}

	if open, err := c.flags.ListBySubject(ctx, identityID, false); err != nil {
		c.sourceUnavailable(identityID, "flags", err)
	} else {
		facts.OpenFlags = model.Some(open)
	}

	return facts, nil
}

func (c *FactCollector) sourceUnavailable(identityID uuid.UUID, source string, err error) {
	c.logger.Warn("data source unavailable, scoring without it",
		slog.String("identity_id", identityID.String()),
		slog.String("source", source),
		slog.String("error", err.Error()),
	)
}
