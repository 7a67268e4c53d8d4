package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/monostock/trust/internal/application/dto"
	"github.com/monostock/trust/internal/application/usecase"
	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/pkg/auth"
)

// ScorePersistedHeader is set on RecalculateTrustScore responses. It carries
// "false" when the returned score could not be stored.
const ScorePersistedHeader = "trust-score-persisted"

// Compile-time assertion that TrustServiceHandler implements TrustServiceServer.
var _ TrustServiceServer = (*TrustServiceHandler)(nil)

// TrustServiceHandler implements the gRPC TrustServiceServer interface.
type TrustServiceHandler struct {
	UnimplementedTrustServiceServer
	getScore    *usecase.GetTrustScore
	recalculate *usecase.RecalculateScore
	addFlag     *usecase.AddFlag
	resolveFlag *usecase.ResolveFlag
	listFlags   *usecase.ListFlags
	logger      *slog.Logger
}

// NewTrustServiceHandler creates a new gRPC handler.
func NewTrustServiceHandler(
	getScore *usecase.GetTrustScore,
	recalculate *usecase.RecalculateScore,
	addFlag *usecase.AddFlag,
	resolveFlag *usecase.ResolveFlag,
	listFlags *usecase.ListFlags,
	logger *slog.Logger,
) *TrustServiceHandler {
	return &TrustServiceHandler{
		getScore:    getScore,
		recalculate: recalculate,
		addFlag:     addFlag,
		resolveFlag: resolveFlag,
		listFlags:   listFlags,
		logger:      logger,
	}
}

// Proto-aligned request/response message types.

// GetTrustScoreRequest represents the proto GetTrustScoreRequest message.
// MaxAgeSeconds of zero selects the server default.
type GetTrustScoreRequest struct {
	IdentityID    string `json:"identity_id"`
	MaxAgeSeconds int64  `json:"max_age_seconds"`
}

// RecalculateTrustScoreRequest represents the proto RecalculateTrustScoreRequest message.
type RecalculateTrustScoreRequest struct {
	IdentityID string `json:"identity_id"`
}

// TrustScoreResponse represents the proto TrustScoreResponse message.
type TrustScoreResponse struct {
	Score *TrustScoreMsg `json:"score"`
}

// TrustScoreMsg represents the proto TrustScore message.
type TrustScoreMsg struct {
	CalculatedAt    *timestamppb.Timestamp `json:"calculated_at"`
	IdentityID      string                 `json:"identity_id"`
	Breakdown       model.Breakdown        `json:"breakdown"`
	Total           int32                  `json:"total"`
	IdentityScore   int32                  `json:"identity_score"`
	BusinessScore   int32                  `json:"business_score"`
	BehaviorScore   int32                  `json:"behavior_score"`
	ReputationScore int32                  `json:"reputation_score"`
	Penalties       int32                  `json:"penalties"`
}

// AddFlagRequest represents the proto AddFlagRequest message.
type AddFlagRequest struct {
	SubjectID string `json:"subject_id"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
	Severity  string `json:"severity"`
}

// FlagResponse represents the proto FlagResponse message.
type FlagResponse struct {
	Flag *FlagMsg `json:"flag"`
}

// FlagMsg represents the proto Flag message.
type FlagMsg struct {
	ResolvedAt *timestamppb.Timestamp `json:"resolved_at,omitempty"`
	CreatedAt  *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt  *timestamppb.Timestamp `json:"updated_at"`
	ID         string                 `json:"id"`
	SubjectID  string                 `json:"subject_id"`
	CreatedBy  string                 `json:"created_by"`
	Type       string                 `json:"type"`
	Reason     string                 `json:"reason"`
	Severity   string                 `json:"severity"`
	Resolved   bool                   `json:"resolved"`
}

// ResolveFlagRequest represents the proto ResolveFlagRequest message.
type ResolveFlagRequest struct {
	FlagID string `json:"flag_id"`
}

// ResolveFlagResponse represents the proto ResolveFlagResponse message.
type ResolveFlagResponse struct {
	Success bool `json:"success"`
}

// ListFlagsRequest represents the proto ListFlagsRequest message.
type ListFlagsRequest struct {
	SubjectID       string `json:"subject_id"`
	IncludeResolved bool   `json:"include_resolved"`
}

// ListFlagsResponse represents the proto ListFlagsResponse message.
type ListFlagsResponse struct {
	Flags []*FlagMsg `json:"flags"`
}

// GetTrustScore returns the stored score, recomputing it when stale or missing.
func (h *TrustServiceHandler) GetTrustScore(ctx context.Context, req *GetTrustScoreRequest) (*TrustScoreResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	identityID, err := uuid.Parse(req.IdentityID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid identity_id: %v", err)
	}
	if req.MaxAgeSeconds < 0 {
		return nil, status.Error(codes.InvalidArgument, "max_age_seconds must not be negative")
	}

	result, err := h.getScore.Execute(ctx, dto.GetScoreRequest{
		IdentityID: identityID,
		MaxAge:     time.Duration(req.MaxAgeSeconds) * time.Second,
	})
	if err != nil {
		return nil, h.toStatus(err, "get trust score", identityID)
	}

	return &TrustScoreResponse{Score: toScoreMsg(result)}, nil
}

// RecalculateTrustScore forces a synchronous recompute.
func (h *TrustServiceHandler) RecalculateTrustScore(ctx context.Context, req *RecalculateTrustScoreRequest) (*TrustScoreResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	identityID, err := uuid.Parse(req.IdentityID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid identity_id: %v", err)
	}

	h.logger.Info("recalculating trust score", slog.String("identity_id", identityID.String()))

	result, err := h.recalculate.Execute(ctx, identityID)
	if err != nil {
		// A computed score that failed to store is still returned to the caller.
		if errors.Is(err, model.ErrPersistence) && result.IdentityID == identityID {
			h.logger.Warn("returning unstored trust score",
				slog.String("identity_id", identityID.String()),
				slog.String("error", err.Error()),
			)
			h.setPersisted(ctx, false)
			return &TrustScoreResponse{Score: toScoreMsg(result)}, nil
		}
		return nil, h.toStatus(err, "recalculate trust score", identityID)
	}

	h.setPersisted(ctx, true)
	return &TrustScoreResponse{Score: toScoreMsg(result)}, nil
}

func (h *TrustServiceHandler) setPersisted(ctx context.Context, persisted bool) {
	value := "true"
	if !persisted {
		value = "false"
	}
	if err := grpclib.SetHeader(ctx, metadata.Pairs(ScorePersistedHeader, value)); err != nil {
		// Only fails outside a server stream, e.g. direct calls in tests.
		h.logger.Debug("failed to set response header", slog.String("error", err.Error()))
	}
}

// AddFlag raises a flag against a subject on behalf of the authenticated caller.
func (h *TrustServiceHandler) AddFlag(ctx context.Context, req *AddFlagRequest) (*FlagResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	createdBy := claims.IdentityID
	if createdBy == uuid.Nil {
		return nil, status.Error(codes.Unauthenticated, "token carries no identity")
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid subject_id: %v", err)
	}
	if subjectID == createdBy {
		return nil, status.Error(codes.InvalidArgument, "an identity cannot flag itself")
	}

	result, err := h.addFlag.Execute(ctx, dto.AddFlagRequest{
		SubjectID: subjectID,
		CreatedBy: createdBy,
		Type:      req.Type,
		Reason:    req.Reason,
		Severity:  req.Severity,
	})
	if err != nil {
		return nil, h.toStatus(err, "add flag", subjectID)
	}

	return &FlagResponse{Flag: toFlagMsg(result)}, nil
}

// ResolveFlag marks a flag resolved. Resolving twice succeeds.
func (h *TrustServiceHandler) ResolveFlag(ctx context.Context, req *ResolveFlagRequest) (*ResolveFlagResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	flagID, err := uuid.Parse(req.FlagID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid flag_id: %v", err)
	}

	result, err := h.resolveFlag.Execute(ctx, flagID)
	if err != nil {
		return nil, h.toStatus(err, "resolve flag", flagID)
	}

	return &ResolveFlagResponse{Success: result.Success}, nil
}

// ListFlags lists flags raised against a subject, newest first.
func (h *TrustServiceHandler) ListFlags(ctx context.Context, req *ListFlagsRequest) (*ListFlagsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid subject_id: %v", err)
	}

	result, err := h.listFlags.Execute(ctx, dto.ListFlagsRequest{
		SubjectID:       subjectID,
		IncludeResolved: req.IncludeResolved,
	})
	if err != nil {
		return nil, h.toStatus(err, "list flags", subjectID)
	}

	flags := make([]*FlagMsg, 0, len(result))
	for _, f := range result {
		flags = append(flags, toFlagMsg(f))
	}
	return &ListFlagsResponse{Flags: flags}, nil
}

// toStatus maps domain errors to gRPC status codes. Internal details are logged, not returned.
func (h *TrustServiceHandler) toStatus(err error, op string, id uuid.UUID) error {
	switch {
	case errors.Is(err, model.ErrIdentityNotFound):
		return status.Error(codes.NotFound, "identity not found")
	case errors.Is(err, model.ErrFlagNotFound):
		return status.Error(codes.NotFound, "flag not found")
	case errors.Is(err, model.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	h.logger.Error("failed to "+op,
		slog.String("id", id.String()),
		slog.String("error", err.Error()),
	)
	return status.Error(codes.Internal, "internal error")
}

func toScoreMsg(s dto.ScoreResponse) *TrustScoreMsg {
	return &TrustScoreMsg{
		IdentityID:      s.IdentityID.String(),
		Total:           int32(s.Total),
		IdentityScore:   int32(s.IdentityScore),
		BusinessScore:   int32(s.BusinessScore),
		BehaviorScore:   int32(s.BehaviorScore),
		ReputationScore: int32(s.ReputationScore),
		Penalties:       int32(s.Penalties),
		Breakdown:       s.Breakdown,
		CalculatedAt:    timestamppb.New(s.CalculatedAt),
	}
}

func toFlagMsg(f dto.FlagResponse) *FlagMsg {
	msg := &FlagMsg{
		ID:        f.ID.String(),
		SubjectID: f.SubjectID.String(),
		CreatedBy: f.CreatedBy.String(),
		Type:      f.Type,
		Reason:    f.Reason,
		Severity:  f.Severity,
		Resolved:  f.Resolved,
		CreatedAt: timestamppb.New(f.CreatedAt),
		UpdatedAt: timestamppb.New(f.UpdatedAt),
	}
	if f.ResolvedAt != nil {
		msg.ResolvedAt = timestamppb.New(*f.ResolvedAt)
	}
	return msg
}
