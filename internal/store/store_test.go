package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kv interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

func stores(t *testing.T) map[string]kv {
	t.Helper()
	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]kv{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()

	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "name")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "name", "Bangalore"))
			v, err := s.Get(ctx, "name")
			require.NoError(t, err)
			assert.Equal(t, "Bangalore", v)

			require.NoError(t, s.Set(ctx, "name", "Mumbai"))
			v, err = s.Get(ctx, "name")
			require.NoError(t, err)
			assert.Equal(t, "Mumbai", v)

			require.NoError(t, s.Set(ctx, "region", ""))
			v, err = s.Get(ctx, "region")
			require.NoError(t, err)
			assert.Empty(t, v, "empty values are stored, not treated as missing")
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "lat", "12.9"))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "lat")
	require.NoError(t, err)
	assert.Equal(t, "12.9", v)
}
