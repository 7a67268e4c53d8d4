package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/monostock/trust/internal/domain/model"
	pgpkg "github.com/monostock/trust/pkg/postgres"
)

// IdentityRepository implements port.IdentityReader and port.ProfileReader using PostgreSQL.
type IdentityRepository struct {
	db pgpkg.Querier
}

// NewIdentityRepository creates a new PostgreSQL-backed identity reader.
func NewIdentityRepository(db pgpkg.Querier) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// FindByID retrieves an identity's verification state. Returns nil, nil when absent.
func (r *IdentityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	query := `
		SELECT id, email_verified, domain_verified, verification_badge, domain,
			COALESCE(avatar_url, '') <> '' AS has_avatar,
			created_at, last_active_at
		FROM identities
		WHERE id = $1
	`

	var (
		identity     model.Identity
		lastActiveAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.EmailVerified,
		&identity.DomainVerified,
		&identity.VerificationBadge,
		&identity.Domain,
		&identity.HasAvatar,
		&identity.CreatedAt,
		&lastActiveAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	identity.LastActiveAt = lastActiveAt

	return &identity, nil
}

// FindByIdentityID retrieves the business profile. Returns nil, nil when the identity has none.
func (r *IdentityRepository) FindByIdentityID(ctx context.Context, identityID uuid.UUID) (*model.BusinessProfile, error) {
	query := `
		SELECT identity_id, company_name,
			COALESCE(logo_url, '') <> '' AS has_logo,
			char_length(description),
			industry_tags,
			COALESCE(city, '') <> '' AS has_city,
			COALESCE(state, '') <> '' AS has_state,
			COALESCE(country, '') <> '' AS has_country,
			COALESCE(business_type, '')
		FROM business_profiles
		WHERE identity_id = $1
	`

	var p model.BusinessProfile
	err := r.db.QueryRow(ctx, query, identityID).Scan(
		&p.IdentityID,
		&p.CompanyName,
		&p.HasLogo,
		&p.DescriptionLength,
		&p.IndustryTags,
		&p.HasCity,
		&p.HasState,
		&p.HasCountry,
		&p.BusinessType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan business profile: %w", err)
	}

	return &p, nil
}
