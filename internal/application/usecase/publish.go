package usecase

import (
	"context"
	"log/slog"

	"github.com/monostock/trust/internal/domain/port"
	"github.com/monostock/trust/pkg/events"
)

// publishLogged publishes events and logs a failure instead of returning it.
func publishLogged(ctx context.Context, publisher port.EventPublisher, logger *slog.Logger, evts ...events.DomainEvent) {
	if len(evts) == 0 {
		return
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Warn("failed to publish domain events",
			slog.Int("count", len(evts)),
			slog.String("error", err.Error()),
		)
	}
}
