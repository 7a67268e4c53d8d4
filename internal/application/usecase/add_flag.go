package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
	"github.com/monostock/trust/internal/domain/valueobject"
)

// AddFlag is the use case for raising a misconduct flag against an identity.
type AddFlag struct {
	flags     port.FlagRepository
	scheduler port.RecomputeScheduler
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewAddFlag creates a new AddFlag use case.
func NewAddFlag(
	flags port.FlagRepository,
	scheduler port.RecomputeScheduler,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *AddFlag {
	return &AddFlag{
		flags:     flags,
		scheduler: scheduler,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute persists an open flag and schedules a recompute of the subject's score.
// Unknown severities are stored as low.
func (uc *AddFlag) Execute(ctx context.Context, req dto.AddFlagRequest) (dto.FlagResponse, error) {
	flag, err := model.NewFlag(
		req.SubjectID,
		req.CreatedBy,
		req.Type,
		req.Reason,
		valueobject.NormalizeSeverity(req.Severity),
	)
	if err != nil {
		return dto.FlagResponse{}, fmt.Errorf("failed to create flag: %w", err)
	}

	if err := uc.flags.Save(ctx, flag); err != nil {
		return dto.FlagResponse{}, fmt.Errorf("failed to save flag: %w: %w", model.ErrPersistence, err)
	}

	uc.logger.Info("flag raised",
		slog.String("flag_id", flag.ID().String()),
		slog.String("subject_id", flag.SubjectID().String()),
		slog.String("severity", flag.Severity().String()),
	)

	uc.scheduler.Schedule(ctx, flag.SubjectID())
	publishLogged(ctx, uc.publisher, uc.logger, flag.DomainEvents()...)

	return dto.FromFlag(flag), nil
}
