package dist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/dist"
	"go.trai.ch/loom/internal/core/domain"
)

func TestManifestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := dist.NewManifestStore()
	distDir := filepath.Join(root, "dist")

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(root, filepath.Join(root, "other"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		files := []string{"app-1.js", "index.html"}
		require.NoError(t, store.Put(root, distDir, files))

		got, err := store.Get(root, distDir)
		require.NoError(t, err)
		assert.Equal(t, files, got)
	})
}

func TestManifestStore_Corrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := dist.NewManifestStore()
	require.NoError(t, store.Put(root, "/srv/dist", []string{"a"}))

	dir := filepath.Join(root, domain.DefaultManifestPath())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, entries[0].Name()), []byte("{ invalid json"), 0o600))

	_, err = store.Get(root, "/srv/dist")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrManifestUnmarshalFailed.Error())
}
