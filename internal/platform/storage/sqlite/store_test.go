package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	t.Run("absent key reports not found", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "k1", "v1"))
		v, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v1", v)
	})

	t.Run("put replaces prior value", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "k1", "v2"))
		v, _, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "v2", v)
	})

	t.Run("delete removes the key", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "k1"))
		_, ok, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete of absent key is a no-op", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-existed"))
	})
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := map[string]string{
		"sbfa_txns_a_2026-01":  "{}",
		"sbfa_txns_a_2026-02":  "{}",
		"sbfa_txns_ab_2026-01": "{}",
		"sbfa_business_a":      "{}",
	}
	for k, v := range seed {
		require.NoError(t, store.Put(ctx, k, v))
	}

	t.Run("prefix listing is sorted", func(t *testing.T) {
		keys, err := store.Keys(ctx, "sbfa_txns_a_")
		require.NoError(t, err)
		assert.Equal(t, []string{"sbfa_txns_a_2026-01", "sbfa_txns_a_2026-02"}, keys)
	})

	t.Run("underscores in the prefix match literally", func(t *testing.T) {
		keys, err := store.Keys(ctx, "sbfa_txns_a_")
		require.NoError(t, err)
		assert.NotContains(t, keys, "sbfa_txns_ab_2026-01")
	})

	t.Run("percent in the prefix matches literally", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "pct%key", "x"))
		keys, err := store.Keys(ctx, "pct%")
		require.NoError(t, err)
		assert.Equal(t, []string{"pct%key"}, keys)

		keys, err = store.Keys(ctx, "pct")
		require.NoError(t, err)
		assert.Equal(t, []string{"pct%key"}, keys)
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		keys, err := store.Keys(ctx, "other_")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})
}
