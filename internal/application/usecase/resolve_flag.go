package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/port"
)

// ResolveFlag is the use case for closing an open flag.
type ResolveFlag struct {
	flags     port.FlagRepository
	scheduler port.RecomputeScheduler
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewResolveFlag creates a new ResolveFlag use case.
func NewResolveFlag(
	flags port.FlagRepository,
	scheduler port.RecomputeScheduler,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ResolveFlag {
	return &ResolveFlag{
		flags:     flags,
		scheduler: scheduler,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute resolves the flag. Resolving an already resolved flag succeeds without a write.
func (uc *ResolveFlag) Execute(ctx context.Context, flagID uuid.UUID) (dto.ResolveFlagResponse, error) {
	flag, err := uc.flags.FindByID(ctx, flagID)
	if err != nil {
		return dto.ResolveFlagResponse{}, fmt.Errorf("failed to find flag: %w", err)
	}
	if flag == nil {
		return dto.ResolveFlagResponse{}, model.ErrFlagNotFound
	}

	if !flag.Resolve() {
		return dto.ResolveFlagResponse{Success: true}, nil
	}

	if err := uc.flags.Save(ctx, flag); err != nil {
		return dto.ResolveFlagResponse{}, fmt.Errorf("failed to save flag: %w: %w", model.ErrPersistence, err)
	}

	uc.logger.Info("flag resolved",
		slog.String("flag_id", flag.ID().String()),
		slog.String("subject_id", flag.SubjectID().String()),
	)

	uc.scheduler.Schedule(ctx, flag.SubjectID())
	publishLogged(ctx, uc.publisher, uc.logger, flag.DomainEvents()...)

	return dto.ResolveFlagResponse{Success: true}, nil
}
