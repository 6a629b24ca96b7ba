package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"zero uses plural", 0, "issues"},
		{"one uses singular", 1, "issue"},
		{"two uses plural", 2, "issues"},
		{"negative uses plural", -1, "issues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.count, "issue", "issues"))
		})
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"fits", "short", 10, "short"},
		{"exact length", "Temperatura", 11, "Temperatura"},
		{"truncated", "Presión Arterial", 10, "Presión..."},
		{"multibyte counted as runes", "Oxígeno en Sangre", 8, "Oxíge..."},
		{"tiny limit unchanged", "abcdef", 3, "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateWithEllipsis(tt.input, tt.maxLen))
		})
	}
}
