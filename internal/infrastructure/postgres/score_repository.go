package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/monostock/trust/internal/domain/model"
	pgpkg "github.com/monostock/trust/pkg/postgres"
)

// ScoreRepository implements port.ScoreRepository using PostgreSQL.
type ScoreRepository struct {
	db pgpkg.Querier
}

// NewScoreRepository creates a new PostgreSQL-backed trust score repository.
func NewScoreRepository(db pgpkg.Querier) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// Upsert stores the score, last write wins.
func (r *ScoreRepository) Upsert(ctx context.Context, score *model.TrustScore) error {
	breakdown, err := json.Marshal(score.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO trust_scores (
			identity_id, total,
			identity_score, business_score, behavior_score, reputation_score,
			penalties, breakdown, calculated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (identity_id) DO UPDATE SET
			total = EXCLUDED.total,
			identity_score = EXCLUDED.identity_score,
			business_score = EXCLUDED.business_score,
			behavior_score = EXCLUDED.behavior_score,
			reputation_score = EXCLUDED.reputation_score,
			penalties = EXCLUDED.penalties,
			breakdown = EXCLUDED.breakdown,
			calculated_at = EXCLUDED.calculated_at
	`

	_, err = r.db.Exec(ctx, query,
		score.IdentityID,
		score.Total,
		score.IdentityScore,
		score.BusinessScore,
		score.BehaviorScore,
		score.ReputationScore,
		score.Penalties,
		breakdown,
		score.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trust score: %w", err)
	}

	return nil
}

// FindByIdentityID retrieves the stored score. Returns nil, nil when none exists.
func (r *ScoreRepository) FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.TrustScore, error) {
	query := `
		SELECT identity_id, total,
			identity_score, business_score, behavior_score, reputation_score,
			penalties, breakdown, calculated_at
		FROM trust_scores
		WHERE identity_id = $1
	`

	var (
		score     model.TrustScore
		breakdown []byte
	)
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&score.IdentityID,
		&score.Total,
		&score.IdentityScore,
		&score.BusinessScore,
		&score.BehaviorScore,
		&score.ReputationScore,
		&score.Penalties,
		&breakdown,
		&score.CalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan trust score: %w", err)
	}

	if err := json.Unmarshal(breakdown, &score.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}
	score.CalculatedAt = score.CalculatedAt.UTC()

	return &score, nil
}
