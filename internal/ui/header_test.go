package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(HeaderInfo{
		Version: "v1.2.0",
		Tagline: "Vital signs dashboard",
		Details: [][2]string{
			{"env", "DEV"},
			{"endpoint", "http://localhost:6548"},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "vitals")
	assert.Contains(t, lines[0], "v1.2.0")
	assert.Contains(t, lines[1], "Vital signs dashboard")
	// Labels are padded to the widest one
	assert.Contains(t, lines[2], "env       DEV")
	assert.Contains(t, lines[3], "endpoint  http://localhost:6548")
	assert.GreaterOrEqual(t, strings.Count(lines[4], "━"), HeaderWidth)
}

func TestRenderHeader_Minimal(t *testing.T) {
	out := RenderHeader(HeaderInfo{})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "vitals")
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer
	PrintHeader(&buf, HeaderInfo{Version: "dev"})
	assert.Contains(t, buf.String(), "dev")
}
