package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrStream,
		ErrStorage,
		ErrExport,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .vitals.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "stream error",
			code:       ErrStream,
			message:    "Gave up after 5 reconnect attempts",
			suggestion: "Check the stream endpoint with 'vitals doctor'",
		},
		{
			name:       "storage error",
			code:       ErrStorage,
			message:    "Couldn't save ranges",
			suggestion: "Check the storage path is writable",
		},
		{
			name:       "export error",
			code:       ErrExport,
			message:    "Couldn't write signos_vitales.pdf",
			suggestion: "Check the export directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := Wrap(cause, "Can't reach the stream")

	assert.Equal(t, ErrStream, err.Code)
	assert.Equal(t, cause, err.Cause)
	assert.True(t, errors.Is(err, cause))
}

func TestWrapWithCode(t *testing.T) {
	cause := fmt.Errorf("permission denied")
	err := WrapWithCode(cause, ErrStorage, "Couldn't save ranges", "Check permissions")

	assert.Equal(t, ErrStorage, err.Code)
	assert.Equal(t, "Check permissions", err.Suggestion)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_Format(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("disk full"), ErrExport, "Export failed", "Free some space")
	out := err.Error()

	lines := strings.Split(out, "\n")
	assert.Equal(t, "✗ Export failed", lines[0])
	assert.Contains(t, out, "  disk full")
	assert.Contains(t, out, "  Free some space")
	assert.Less(t, strings.Index(out, "disk full"), strings.Index(out, "Free some space"))
}

func TestError_FormatWithoutOptionalParts(t *testing.T) {
	err := New(ErrConfig, "Bad config", "")
	assert.Equal(t, "✗ Bad config\n", err.Error())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "", Short(nil))
	assert.Equal(t, "plain", Short(fmt.Errorf("plain")))
	assert.Equal(t, "Export failed", Short(New(ErrExport, "Export failed", "hint")))
	assert.Equal(t, "Export failed: disk full",
		Short(WrapWithCode(fmt.Errorf("disk full"), ErrExport, "Export failed", "")))

	wrapped := fmt.Errorf("outer: %w", New(ErrStorage, "Save failed", ""))
	assert.Equal(t, "Save failed", Short(wrapped))
}

func TestIsCode(t *testing.T) {
	err := New(ErrStorage, "failed", "")

	assert.True(t, IsCode(err, ErrStorage))
	assert.False(t, IsCode(err, ErrConfig))
	assert.False(t, IsCode(nil, ErrStorage))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrStorage))
	assert.True(t, IsCode(fmt.Errorf("wrapped: %w", err), ErrStorage))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", New(ErrStorage, "Couldn't save ranges", ""))

	var vErr *Error
	require.True(t, As(wrapped, &vErr))
	assert.Equal(t, ErrStorage, vErr.Code)
	assert.False(t, As(fmt.Errorf("plain"), &vErr))
}
