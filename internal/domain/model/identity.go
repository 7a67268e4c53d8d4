package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monostock/trust/internal/domain/valueobject"
)

// DefaultBusinessType is the value a profile carries when the owner never picked a type.
const DefaultBusinessType = "other"

// Identity is a read-only snapshot of a platform participant's verification state.
type Identity struct {
	CreatedAt         time.Time
	LastActiveAt      *time.Time
	Domain            string
	ID                uuid.UUID
	EmailVerified     bool
	DomainVerified    bool
	VerificationBadge bool
	HasAvatar         bool
}

// BusinessProfile is the optional company profile attached to an identity.
type BusinessProfile struct {
	CompanyName       string
	BusinessType      string
	IndustryTags      []string
	DescriptionLength int
	IdentityID        uuid.UUID
	HasLogo           bool
	HasCity           bool
	HasState          bool
	HasCountry        bool
}

// BusinessTypeSet reports whether the owner filled in a business type.
func (p BusinessProfile) BusinessTypeSet() bool {
	return strings.TrimSpace(p.BusinessType) != ""
}

// HasDefaultBusinessType reports whether the business type is the catch-all default.
func (p BusinessProfile) HasDefaultBusinessType() bool {
	return strings.EqualFold(strings.TrimSpace(p.BusinessType), DefaultBusinessType)
}

// Connection is a directed edge in the connection graph.
type Connection struct {
	Status      valueobject.ConnectionStatus
	RequesterID uuid.UUID
	ReceiverID  uuid.UUID
}

// Touches reports whether the identity is either end of the edge.
func (c Connection) Touches(id uuid.UUID) bool {
	return c.RequesterID == id || c.ReceiverID == id
}

// Counterpart returns the other end of the edge relative to id.
func (c Connection) Counterpart(id uuid.UUID) uuid.UUID {
	if c.RequesterID == id {
		return c.ReceiverID
	}
	return c.RequesterID
}

// MessageCounters holds aggregate message counts for an identity.
type MessageCounters struct {
	Sent     int
	Received int
}

// Facts is everything the scorers read about one identity. Every source other
// than the identity itself may be absent when it could not be read.
type Facts struct {
	Identity    Identity
	Profile     Optional[BusinessProfile]
	Connections Optional[[]Connection]
	Messages    Optional[MessageCounters]
	Engagements Optional[int]
	OpenFlags   Optional[[]*Flag]
}
