package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monostock/trust/internal/domain/valueobject"
)

func TestSeverity_Points(t *testing.T) {
	tests := []struct {
		name     string
		severity valueobject.Severity
		expected int
	}{
		{"low costs 3", valueobject.SeverityLow, 3},
		{"medium costs 7", valueobject.SeverityMedium, 7},
		{"high costs 15", valueobject.SeverityHigh, 15},
		{"critical costs 30", valueobject.SeverityCritical, 30},
		{"unset counts as low", valueobject.Severity{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.Points())
		})
	}
}

func TestSeverity_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.Severity
		wantErr  bool
	}{
		{"low", valueobject.SeverityLow, false},
		{"MEDIUM", valueobject.SeverityMedium, false},
		{" High ", valueobject.SeverityHigh, false},
		{"critical", valueobject.SeverityCritical, false},
		{"severe", valueobject.Severity{}, true},
		{"", valueobject.Severity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.SeverityFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result))
		})
	}
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, valueobject.SeverityCritical, valueobject.NormalizeSeverity("Critical"))
	assert.Equal(t, valueobject.SeverityLow, valueobject.NormalizeSeverity("catastrophic"))
	assert.Equal(t, valueobject.SeverityLow, valueobject.NormalizeSeverity(""))
}

func TestSeverity_IsZero(t *testing.T) {
	var zero valueobject.Severity
	assert.True(t, zero.IsZero())
	assert.False(t, valueobject.SeverityLow.IsZero())
}
