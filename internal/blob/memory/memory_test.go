package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "expenses", "[]"))
	require.NoError(t, s.Set(ctx, "expenses", `[{"id":"a"}]`))

	v, ok, err := s.Get(ctx, "expenses")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)
	assert.Equal(t, 2, s.Writes())
}

func TestNewWithCopiesSeed(t *testing.T) {
	seed := map[string]string{"walletBalance": "5000"}
	s := NewWith(seed)
	seed["walletBalance"] = "1"

	assert.Equal(t, map[string]string{"walletBalance": "5000"}, s.Snapshot())
	assert.Equal(t, 0, s.Writes())
}

func TestFailWith(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("quota exceeded")

	s.FailWith(boom)
	assert.ErrorIs(t, s.Set(ctx, "k", "v"), boom)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)

	s.FailWith(nil)
	assert.NoError(t, s.Set(ctx, "k", "v"))
	assert.Equal(t, 1, s.Writes())
}
