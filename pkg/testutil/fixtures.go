package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed UUIDs for deterministic testing
var (
	TestIdentityID1 = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestIdentityID2 = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	TestModeratorID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestFlagID      = uuid.MustParse("00000000-0000-0000-0000-000000000020")
)

// FixedTime is a deterministic timestamp for events and scores.
var FixedTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
