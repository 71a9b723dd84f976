package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONStore_MissingFileIsEmpty(t *testing.T) {
	store := NewJSONStore[[]string](filepath.Join(t.TempDir(), "saved.json"), zap.NewNop())

	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestJSONStore_CorruptFileIsReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewJSONStore[[]string](path, zap.NewNop())
	data, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, data)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestJSONStore_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "saved.json")
	store := NewJSONStore[[]string](path, zap.NewNop())

	written, err := store.Update(func(data map[string][]string) bool {
		data["default"] = append(data["default"], "whole_life_0")
		return true
	})
	require.NoError(t, err)
	assert.True(t, written)

	written, err = store.Update(func(data map[string][]string) bool {
		return false
	})
	require.NoError(t, err)
	assert.False(t, written)

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"default": {"whole_life_0"}}, data)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}
