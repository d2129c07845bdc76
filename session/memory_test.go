package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackendExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	b := NewMemoryBackend()
	b.now = fixedClock(&now)

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	got, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	keys, err := b.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
