package valueobject

import (
	"fmt"
	"strings"
)

// Severity is an immutable value object classifying how serious a misconduct flag is.
type Severity struct {
	value string
}

var (
	SeverityLow      = Severity{value: "low"}
	SeverityMedium   = Severity{value: "medium"}
	SeverityHigh     = Severity{value: "high"}
	SeverityCritical = Severity{value: "critical"}
)

// SeverityFromString reconstructs a Severity from its string representation.
// Matching is case-insensitive.
func SeverityFromString(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return SeverityLow, nil
	case "medium":
		return SeverityMedium, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %q", s)
	}
}

// NormalizeSeverity maps any input onto a known severity, falling back to low.
func NormalizeSeverity(s string) Severity {
	sev, err := SeverityFromString(s)
	if err != nil {
		return SeverityLow
	}
	return sev
}

// String returns the string representation.
func (s Severity) String() string {
	return s.value
}

// Points returns the penalty deducted from a trust score for an open flag of this severity.
// LOW=3, MEDIUM=7, HIGH=15, CRITICAL=30. An unset severity counts as LOW.
func (s Severity) Points() int {
	switch s.value {
	case "medium":
		return 7
	case "high":
		return 15
	case "critical":
		return 30
	default:
		return 3
	}
}

// IsZero returns true if the Severity has not been set.
func (s Severity) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another Severity.
func (s Severity) Equal(other Severity) bool {
	return s.value == other.value
}
