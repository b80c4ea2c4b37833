package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")

	s, err := NewInDir(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultFileName), s.Path())

	_, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, ok, "missing file reads as empty")

	require.NoError(t, s.Set(ctx, "expenses", `[{"id":"a"}]`))
	require.NoError(t, s.Set(ctx, "walletBalance", "5000"))

	reopened, err := New(s.Path())
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	v, ok, err = reopened.Get(ctx, "walletBalance")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5000", v)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestStoreCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := New(path)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "walletBalance", "10"))
	v, ok, err := s.Get(ctx, "walletBalance")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10", v)
}
