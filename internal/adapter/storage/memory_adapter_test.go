package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdapter_GetMissing(t *testing.T) {
	adapter := NewMemoryAdapter()

	value, ok, err := adapter.GetItem(context.Background(), "@storefront:cart")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestMemoryAdapter_SetOverwrites(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx := context.Background()

	require.NoError(t, adapter.SetItem(ctx, "k", "[]"))
	require.NoError(t, adapter.SetItem(ctx, "k", `[{"id":1}]`))

	value, ok, err := adapter.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, value)
}

func TestMemoryAdapter_Ping(t *testing.T) {
	adapter := NewMemoryAdapter()
	ctx, cancel := context.WithCancel(context.Background())

	assert.NoError(t, adapter.Ping(ctx))
	cancel()
	assert.ErrorIs(t, adapter.Ping(ctx), context.Canceled)
}
