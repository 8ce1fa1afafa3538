package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

const (
	hashOne = "1111111111111111111111111111111111111111"
	hashTwo = "2222222222222222222222222222222222222222"
)

// seedBlob drops an empty tarball blob for a hash into a cache directory.
func seedBlob(t *testing.T, cacheDir, hash string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(cacheDir, 0755))
	require.NoError(t, os.WriteFile(TarballPath(cacheDir, hash), []byte("blob"), 0644))
}

func readMapFile(t *testing.T, cacheDir string) types.CacheMap {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(cacheDir, MapFileName))
	require.NoError(t, err, "map file should exist")
	cached := make(types.CacheMap)
	require.NoError(t, json.Unmarshal(content, &cached))
	return cached
}

func TestReadCacheMap(t *testing.T) {
	t.Run("should treat a missing file as an empty mapping", func(t *testing.T) {
		cached := ReadCacheMap(filepath.Join(t.TempDir(), "nope"))
		assert.Empty(t, cached)
	})

	t.Run("should treat an unreadable file as an empty mapping", func(t *testing.T) {
		cacheDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(cacheDir, MapFileName), []byte("{not json"), 0644))
		assert.Empty(t, ReadCacheMap(cacheDir))
	})

	t.Run("should load an existing mapping", func(t *testing.T) {
		cacheDir := t.TempDir()
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))
		assert.Equal(t, types.CacheMap{"main": hashOne}, ReadCacheMap(cacheDir))
	})
}

func TestUpdateCache(t *testing.T) {
	t.Run("should record an access-log entry on every update", func(t *testing.T) {
		cacheDir := t.TempDir()
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))
		// Same hash again: the mapping is a no-op, the log is not.
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, ReadCacheMap(cacheDir)))

		content, err := os.ReadFile(filepath.Join(cacheDir, AccessLogFileName))
		require.NoError(t, err)
		logs := make(types.AccessLog)
		require.NoError(t, json.Unmarshal(content, &logs))
		require.Contains(t, logs, "main")
		_, err = time.Parse(time.RFC3339, logs["main"])
		assert.NoError(t, err, "access timestamps must be RFC 3339")
	})

	t.Run("should merge access-log entries across refs", func(t *testing.T) {
		cacheDir := t.TempDir()
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))
		require.NoError(t, UpdateCache(cacheDir, "dev", hashTwo, ReadCacheMap(cacheDir)))

		content, err := os.ReadFile(filepath.Join(cacheDir, AccessLogFileName))
		require.NoError(t, err)
		logs := make(types.AccessLog)
		require.NoError(t, json.Unmarshal(content, &logs))
		assert.Contains(t, logs, "main")
		assert.Contains(t, logs, "dev")
	})

	t.Run("should prune a superseded blob no other ref references", func(t *testing.T) {
		cacheDir := t.TempDir()
		seedBlob(t, cacheDir, hashOne)
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))

		require.NoError(t, UpdateCache(cacheDir, "main", hashTwo, ReadCacheMap(cacheDir)))

		assert.Equal(t, types.CacheMap{"main": hashTwo}, readMapFile(t, cacheDir))
		assert.NoFileExists(t, TarballPath(cacheDir, hashOne), "orphaned blob should be pruned")
	})

	t.Run("should keep a superseded blob another ref still references", func(t *testing.T) {
		cacheDir := t.TempDir()
		seedBlob(t, cacheDir, hashOne)
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))
		require.NoError(t, UpdateCache(cacheDir, "v1.0.0", hashOne, ReadCacheMap(cacheDir)))

		require.NoError(t, UpdateCache(cacheDir, "main", hashTwo, ReadCacheMap(cacheDir)))

		assert.Equal(t, types.CacheMap{"main": hashTwo, "v1.0.0": hashOne}, readMapFile(t, cacheDir))
		assert.FileExists(t, TarballPath(cacheDir, hashOne), "blob still referenced by v1.0.0 must survive")
	})

	t.Run("should not fail when the superseded blob is already absent", func(t *testing.T) {
		cacheDir := t.TempDir()
		require.NoError(t, UpdateCache(cacheDir, "main", hashOne, make(types.CacheMap)))
		require.NoError(t, UpdateCache(cacheDir, "main", hashTwo, ReadCacheMap(cacheDir)))
	})
}

func TestRepoCacheDir(t *testing.T) {
	repo := &types.Repo{Site: "github", User: "tiged", Name: "tiged-test-repo"}
	assert.Equal(t,
		filepath.Join("root", "github", "tiged", "tiged-test-repo"),
		RepoCacheDir("root", repo))
}
