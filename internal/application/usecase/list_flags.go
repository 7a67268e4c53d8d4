package usecase

import (
	"context"
	"fmt"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/domain/port"
)

// ListFlags is the read-only use case for a subject's flags.
type ListFlags struct {
	flags port.FlagRepository
}

// NewListFlags creates a new ListFlags use case.
func NewListFlags(flags port.FlagRepository) *ListFlags {
	return &ListFlags{flags: flags}
}

// Execute returns the subject's flags, newest first.
func (uc *ListFlags) Execute(ctx context.Context, req dto.ListFlagsRequest) ([]dto.FlagResponse, error) {
	flags, err := uc.flags.ListBySubject(ctx, req.SubjectID, req.IncludeResolved)
	if err != nil {
		return nil, fmt.Errorf("failed to list flags: %w", err)
	}

	resp := make([]dto.FlagResponse, 0, len(flags))
	for _, f := range flags {
		resp = append(resp, dto.FromFlag(f))
	}
	return resp, nil
}
