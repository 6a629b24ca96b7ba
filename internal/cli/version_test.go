package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runVersion runs the real version command and returns its output.
func runVersion(t *testing.T, short bool) string {
	t.Helper()

	origShort := versionShort
	defer func() {
		versionShort = origShort
		versionCmd.SetOut(nil)
	}()

	var buf bytes.Buffer
	versionShort = short
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	return buf.String()
}

func TestVersionOutput(t *testing.T) {
	// Save original values
	originalVersion := version
	originalCommit := commit
	originalDate := date

	// Restore after test
	defer func() {
		version = originalVersion
		commit = originalCommit
		date = originalDate
	}()

	// Set test values
	version = "1.2.3"
	commit = "abc1234"
	date = "2025-01-08T12:00:00Z"

	output := runVersion(t, false)

	// Verify all expected fields are present
	assert.Contains(t, output, "vitals v1.2.3", "should show version with v prefix")
	assert.Contains(t, output, "commit: abc1234", "should show commit")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z", "should show build date")
	assert.Contains(t, output, "environment: "+buildEnv, "should show build environment")
	assert.Contains(t, output, "go: "+runtime.Version(), "should show Go version")
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH, "should show os/arch")
}

func TestVersionOutputShort(t *testing.T) {
	// Save original values
	originalVersion := version

	// Restore after test
	defer func() {
		version = originalVersion
	}()

	version = "1.2.3"

	output := strings.TrimSpace(runVersion(t, true))
	assert.Equal(t, "1.2.3", output, "short output should only show version")
}

func TestVersionOutputDev(t *testing.T) {
	// Save original values
	originalVersion := version
	originalCommit := commit
	originalDate := date

	// Restore after test
	defer func() {
		version = originalVersion
		commit = originalCommit
		date = originalDate
	}()

	version = "dev"
	commit = "none"
	date = "unknown"

	output := runVersion(t, false)
	assert.Contains(t, output, "vitals dev", "dev version should not have v prefix")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "dev version",
			input: "dev",
			want:  "dev",
		},
		{
			name:  "version without prefix",
			input: "1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "version with prefix",
			input: "v1.2.3",
			want:  "v1.2.3",
		},
		{
			name:  "version with prerelease",
			input: "1.2.3-beta.1",
			want:  "v1.2.3-beta.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatVersion(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersionCommandHasShortFlag(t *testing.T) {
	flag := versionCmd.Flags().Lookup("short")
	require.NotNil(t, flag, "version command should have --short flag")
	assert.Equal(t, "bool", flag.Value.Type())
	assert.Equal(t, "false", flag.DefValue)
}

func TestSetVersionInfo(t *testing.T) {
	// Save original values
	originalVersion := version
	originalCommit := commit
	originalDate := date

	// Restore after test
	defer func() {
		version = originalVersion
		commit = originalCommit
		date = originalDate
	}()

	SetVersionInfo("2.0.0", "def5678", "2025-06-15T10:00:00Z")

	assert.Equal(t, "2.0.0", version)
	assert.Equal(t, "def5678", commit)
	assert.Equal(t, "2025-06-15T10:00:00Z", date)
}

func TestGetVersion(t *testing.T) {
	// Save original value
	originalVersion := version
	defer func() { version = originalVersion }()

	version = "3.0.0"
	assert.Equal(t, "3.0.0", GetVersion())
}
