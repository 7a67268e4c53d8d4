package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/valueobject"
	pgpkg "github.com/monostock/trust/pkg/postgres"
)

// FlagRepository implements port.FlagRepository using PostgreSQL.
type FlagRepository struct {
	db pgpkg.Querier
}

// NewFlagRepository creates a new PostgreSQL-backed flag repository.
func NewFlagRepository(db pgpkg.Querier) *FlagRepository {
	return &FlagRepository{db: db}
}

const flagColumns = `id, subject_id, created_by, flag_type, reason, severity,
	resolved, resolved_at, created_at, updated_at`

// Save inserts a flag or records its resolution.
func (r *FlagRepository) Save(ctx context.Context, flag *model.Flag) error {
	query := `
		INSERT INTO trust_flags (` + flagColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			resolved = EXCLUDED.resolved,
			resolved_at = EXCLUDED.resolved_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		flag.ID(),
		flag.SubjectID(),
		flag.CreatedBy(),
		flag.Type(),
		flag.Reason(),
		flag.Severity().String(),
		flag.Resolved(),
		flag.ResolvedAt(),
		flag.CreatedAt(),
		flag.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save flag: %w", err)
	}

	return nil
}

// FindByID retrieves a flag. Returns nil, nil when absent.
func (r *FlagRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Flag, error) {
	query := `SELECT ` + flagColumns + ` FROM trust_flags WHERE id = $1`

	flag, err := scanFlag(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return flag, nil
}

// ListBySubject returns flags raised against the subject, newest first.
func (r *FlagRepository) ListBySubject(ctx context.Context, subjectID uuid.UUID, includeResolved bool) ([]*model.Flag, error) {
	query := `
		SELECT ` + flagColumns + `
		FROM trust_flags
		WHERE subject_id = $1 AND ($2 OR resolved = FALSE)
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(ctx, query, subjectID, includeResolved)
	if err != nil {
		return nil, fmt.Errorf("failed to query flags: %w", err)
	}
	defer rows.Close()

	flags := make([]*model.Flag, 0)
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flags: %w", err)
	}

	return flags, nil
}

func scanFlag(row pgx.Row) (*model.Flag, error) {
	var (
		id, subjectID, createdBy uuid.UUID
		flagType, reason         string
		severityStr              string
		resolved                 bool
		resolvedAt               *time.Time
		createdAt, updatedAt     time.Time
	)

	err := row.Scan(
		&id, &subjectID, &createdBy, &flagType, &reason, &severityStr,
		&resolved, &resolvedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan flag: %w", err)
	}

	return model.ReconstructFlag(
		id, subjectID, createdBy,
		flagType, reason,
		valueobject.NormalizeSeverity(severityStr),
		resolved, resolvedAt,
		createdAt, updatedAt,
	), nil
}
