package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/monostock/trust/internal/domain/model"
	"github.com/monostock/trust/internal/domain/valueobject"
	pgpkg "github.com/monostock/trust/pkg/postgres"
)

// ActivityRepository implements port.ConnectionReader, port.MessageCounterReader
// and port.EngagementReader using PostgreSQL.
type ActivityRepository struct {
	db pgpkg.Querier
}

// NewActivityRepository creates a new PostgreSQL-backed activity reader.
func NewActivityRepository(db pgpkg.Querier) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ListTouching returns every connection edge where the identity is either end.
func (r *ActivityRepository) ListTouching(ctx context.Context, identityID uuid.UUID) ([]model.Connection, error) {
	query := `
		SELECT requester_id, receiver_id, status
		FROM connections
		WHERE requester_id = $1 OR receiver_id = $1
	`

	rows, err := r.db.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	conns := make([]model.Connection, 0)
	for rows.Next() {
		var (
			c      model.Connection
			status string
		)
		if err := rows.Scan(&c.RequesterID, &c.ReceiverID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		c.Status, err = valueobject.ConnectionStatusFromString(status)
		if err != nil {
			return nil, fmt.Errorf("failed to parse connection status: %w", err)
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}

	return conns, nil
}

// Counters returns the identity's message counts. Missing rows count as zero.
func (r *ActivityRepository) Counters(ctx context.Context, identityID uuid.UUID) (model.MessageCounters, error) {
	var c model.MessageCounters
	err := r.db.QueryRow(ctx,
		`SELECT sent, received FROM message_counters WHERE identity_id = $1`,
		identityID,
	).Scan(&c.Sent, &c.Received)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.MessageCounters{}, nil
		}
		return model.MessageCounters{}, fmt.Errorf("failed to scan message counters: %w", err)
	}
	return c, nil
}

// CountEngagements counts orders attributed to the identity.
func (r *ActivityRepository) CountEngagements(ctx context.Context, identityID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE identity_id = $1`,
		identityID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}
	return n, nil
}
