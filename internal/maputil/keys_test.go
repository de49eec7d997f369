package maputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]bool
		expected []string
	}{
		{
			name:     "component names",
			input:    map[string]bool{"Trippin.Person": true, "Trippin.Airline": true, "Trippin.Location": true},
			expected: []string{"Trippin.Airline", "Trippin.Location", "Trippin.Person"},
		},
		{
			name:     "single key",
			input:    map[string]bool{"only": true},
			expected: []string{"only"},
		},
		{
			name:     "empty map",
			input:    map[string]bool{},
			expected: []string{},
		},
		{
			name:     "nil map",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SortedKeys(tt.input), "SortedKeys(%v)", tt.input)
		})
	}
}

func TestSortedKeys_PointerValues(t *testing.T) {
	type fragment struct{ ref string }
	input := map[string]*fragment{"top": {ref: "#/components/parameters/top"}, "count": {ref: "#/components/parameters/count"}}
	assert.Equal(t, []string{"count", "top"}, SortedKeys(input))
}

func TestSortedKeys_IntKeys(t *testing.T) {
	assert.Equal(t, []int{1, 2, 10}, SortedKeys(map[int]string{10: "c", 1: "a", 2: "b"}))
}
