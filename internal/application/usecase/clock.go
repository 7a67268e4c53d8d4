package usecase

import (
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("trust/usecase")

// Clock returns the current time.
type Clock func() time.Time

// systemClock matches the microsecond resolution of TIMESTAMPTZ columns.
func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
