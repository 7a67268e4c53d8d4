package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/port"
	pkgkafka "github.com/monostock/trust/pkg/kafka"
)

// Input change event types that affect a trust score.
const (
	InputEmailVerified  = "identity.email_verified"
	InputDomainVerified = "identity.domain_verified"
	InputProfileUpdated = "identity.profile_updated"
	InputConnection     = "connection.accepted"
)

var scoringInputs = map[string]bool{
	InputEmailVerified:  true,
	InputDomainVerified: true,
	InputProfileUpdated: true,
	InputConnection:     true,
}

// InputChange is the message published by upstream services when an identity's
// scoring inputs change.
type InputChange struct {
	EventType   string   `json:"event_type"`
	IdentityIDs []string `json:"identity_ids"`
}

// InputChangeHandler schedules recomputes for identities named in input change events.
type InputChangeHandler struct {
	scheduler port.RecomputeScheduler
	logger    *slog.Logger
}

// NewInputChangeHandler creates a new InputChangeHandler.
func NewInputChangeHandler(scheduler port.RecomputeScheduler, logger *slog.Logger) *InputChangeHandler {
	return &InputChangeHandler{scheduler: scheduler, logger: logger}
}

// Handle implements pkg/kafka.Handler. It never returns an error: a message
// that cannot be used is logged and its offset committed.
func (h *InputChangeHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var change InputChange
	if err := json.Unmarshal(msg.Value, &change); err != nil {
		h.logger.WarnContext(ctx, "skipping malformed input change",
			slog.String("topic", msg.Topic),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if change.EventType == "" {
		change.EventType = msg.Headers["event_type"]
	}

	if !scoringInputs[change.EventType] {
		h.logger.DebugContext(ctx, "ignoring input change",
			slog.String("event_type", change.EventType),
		)
		return nil
	}

	for _, raw := range change.IdentityIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.logger.WarnContext(ctx, "skipping invalid identity id",
				slog.String("event_type", change.EventType),
				slog.String("identity_id", raw),
			)
			continue
		}
		h.scheduler.Schedule(ctx, id)
	}

	return nil
}
