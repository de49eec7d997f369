package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"error level", SeverityError, "error"},
		{"warning level", SeverityWarning, "warning"},
		{"info level", SeverityInfo, "info"},
		{"critical level", SeverityCritical, "critical"},
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestSeverityAtLeast(t *testing.T) {
	assert.True(t, SeverityCritical.AtLeast(SeverityError))
	assert.True(t, SeverityError.AtLeast(SeverityError))
	assert.False(t, SeverityWarning.AtLeast(SeverityError))
	assert.True(t, SeverityWarning.AtLeast(SeverityInfo))
	assert.False(t, SeverityInfo.AtLeast(SeverityWarning))
	assert.False(t, Severity(42).AtLeast(SeverityInfo))
}

func TestParse(t *testing.T) {
	for _, s := range []Severity{SeverityInfo, SeverityWarning, SeverityError, SeverityCritical} {
		got, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := Parse("fatal")
	assert.Error(t, err)
}

func TestMarshalText(t *testing.T) {
	b, err := SeverityWarning.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "warning", string(b))
}
