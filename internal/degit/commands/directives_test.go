package commands_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gingerrexayers/degit-go/internal/degit/commands"
	"github.com/gingerrexayers/degit-go/internal/degit/lib"
)

func TestRemoveDirectives(t *testing.T) {
	t.Run("should delete named files and warn about missing ones", func(t *testing.T) {
		cacheRoot := t.TempDir()
		seedCacheTarball(t, cacheRoot, "tiged", "with-directives", testHash, map[string]string{
			"degit.json": `[{"action": "remove", "files": ["LICENSE", "missing.txt"]}]`,
			"LICENSE":    "MIT",
			"file.txt":   "keep me",
		})
		dest := t.TempDir()

		recorder := &eventRecorder{}
		cloner, err := commands.NewCloner("tiged/with-directives#"+testHash, commands.Options{
			CacheRoot:   cacheRoot,
			OfflineMode: true,
			OnInfo:      recorder.info,
			OnWarn:      recorder.warn,
		})
		require.NoError(t, err)
		require.NoError(t, cloner.Clone(context.Background(), dest))

		assert.NoFileExists(t, filepath.Join(dest, "LICENSE"), "removed by directive")
		assert.NoFileExists(t, filepath.Join(dest, "degit.json"), "the config file is consumed")
		assert.Equal(t, "keep me", readFile(t, filepath.Join(dest, "file.txt")))

		assert.Contains(t, recorder.warnCodes(), lib.EvFileNotExists, "missing target should warn")
		assert.Contains(t, recorder.infoCodes(), lib.EvRemovedFiles, "removed files should be summarized")
	})

	t.Run("should treat a bare-string files value as one target", func(t *testing.T) {
		cacheRoot := t.TempDir()
		seedCacheTarball(t, cacheRoot, "tiged", "with-directives", testHash, map[string]string{
			"degit.json": `[{"action": "remove", "files": "LICENSE"}]`,
			"LICENSE":    "MIT",
			"file.txt":   "keep me",
		})
		dest := t.TempDir()

		cloner, err := commands.NewCloner("tiged/with-directives#"+testHash, commands.Options{
			CacheRoot:   cacheRoot,
			OfflineMode: true,
		})
		require.NoError(t, err)
		require.NoError(t, cloner.Clone(context.Background(), dest))

		assert.NoFileExists(t, filepath.Join(dest, "LICENSE"))
		assert.FileExists(t, filepath.Join(dest, "file.txt"))
	})
}

func TestCloneDirectives(t *testing.T) {
	t.Run("should layer the fetched content over a nested clone", func(t *testing.T) {
		cacheRoot := t.TempDir()
		seedCacheTarball(t, cacheRoot, "tiged", "base-template", otherHash, map[string]string{
			"base.txt":   "from base",
			"shared.txt": "from base",
		})
		seedCacheTarball(t, cacheRoot, "tiged", "app-template", testHash, map[string]string{
			"degit.json": `[{"action": "clone", "src": "tiged/base-template#` + otherHash + `"}]`,
			"app.txt":    "from app",
			"shared.txt": "from app",
		})
		dest := t.TempDir()

		cloner, err := commands.NewCloner("tiged/app-template#"+testHash, commands.Options{
			CacheRoot:   cacheRoot,
			OfflineMode: true,
		})
		require.NoError(t, err)
		require.NoError(t, cloner.Clone(context.Background(), dest))

		assert.Equal(t, "from base", readFile(t, filepath.Join(dest, "base.txt")))
		assert.Equal(t, "from app", readFile(t, filepath.Join(dest, "app.txt")))
		assert.Equal(t, "from app", readFile(t, filepath.Join(dest, "shared.txt")),
			"the outer repository's files win over the nested clone")
		assert.NoFileExists(t, filepath.Join(dest, "degit.json"))
	})

	t.Run("should propagate nested clone failures", func(t *testing.T) {
		cacheRoot := t.TempDir()
		seedCacheTarball(t, cacheRoot, "tiged", "app-template", testHash, map[string]string{
			"degit.json": `[{"action": "clone", "src": "tiged/does-not-exist#` + otherHash + `"}]`,
			"app.txt":    "from app",
		})

		cloner, err := commands.NewCloner("tiged/app-template#"+testHash, commands.Options{
			CacheRoot:   cacheRoot,
			OfflineMode: true,
		})
		require.NoError(t, err)

		err = cloner.Clone(context.Background(), t.TempDir())
		require.Error(t, err)
		assert.Equal(t, lib.CodeCacheMiss, lib.CodeOf(err),
			"the nested clone's failure surfaces to the top-level caller")
	})
}
