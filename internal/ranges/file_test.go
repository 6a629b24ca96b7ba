package ranges

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	b := NewFileBackend(dir)
	ctx := context.Background()

	_, err := b.Get(ctx, "rangos")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Put(ctx, "rangos", []byte(`{"a":1}`)))
	got, err := b.Get(ctx, "rangos")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	require.NoError(t, b.Put(ctx, "rangos", []byte(`{"a":2}`)))
	got, err = b.Get(ctx, "rangos")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	assert.Equal(t, filepath.Join(dir, "rangos.json"), b.Path("rangos"))
}

func TestFileBackend_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir)

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Put(context.Background(), "rangos", []byte("{}")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "rangos.json", entries[0].Name())
}

func TestFileBackend_CancelledContext(t *testing.T) {
	b := NewFileBackend(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, b.Put(ctx, "rangos", []byte("{}")))
	_, err := b.Get(ctx, "rangos")
	assert.Error(t, err)
}

func TestFileBackend_WithStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := NewStore(NewFileBackend(dir))
	_, err := s.SetField(ctx, "o2InBlood", "min", "92")
	require.NoError(t, err)

	cfg := NewStore(NewFileBackend(dir)).Load(ctx)
	assert.Equal(t, 92.0, cfg["o2InBlood"].Min)
}
