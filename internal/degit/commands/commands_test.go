package commands_test

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

const (
	testHash  = "b09755bc4cca3d3b398fbe5e411daeae79869581"
	otherHash = "f7a8b9c0d1e2f7a8b9c0d1e2f7a8b9c0d1e2f7a8"
)

// seedCacheTarball builds a gzipped tarball blob for a commit hash inside
// the cache layout, so offline clones can run without any network.
func seedCacheTarball(t *testing.T, cacheRoot, user, name, hash string, files map[string]string) {
	t.Helper()

	repo := &types.Repo{Site: "github", User: user, Name: name}
	cacheDir := lib.RepoCacheDir(cacheRoot, repo)
	require.NoError(t, os.MkdirAll(cacheDir, 0755))

	out, err := os.Create(lib.TarballPath(cacheDir, hash))
	require.NoError(t, err)
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	for rel, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name + "-" + hash + "/" + rel,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, out.Close())
}

// eventRecorder collects emitted events for assertions.
type eventRecorder struct {
	infos []lib.Event
	warns []lib.Event
}

func (r *eventRecorder) info(ev lib.Event) {
	r.infos = append(r.infos, ev)
}

func (r *eventRecorder) warn(ev lib.Event) {
	r.warns = append(r.warns, ev)
}

func (r *eventRecorder) infoCodes() []string {
	codes := make([]string, 0, len(r.infos))
	for _, ev := range r.infos {
		codes = append(codes, ev.Code)
	}
	return codes
}

func (r *eventRecorder) warnCodes() []string {
	codes := make([]string, 0, len(r.warns))
	for _, ev := range r.warns {
		codes = append(codes, ev.Code)
	}
	return codes
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err, "expected %s to exist", path)
	return string(content)
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func seedTestRepo(t *testing.T, cacheRoot string) {
	t.Helper()
	seedCacheTarball(t, cacheRoot, "tiged", "tiged-test-repo", testHash, map[string]string{
		"file.txt":        "hello from github!",
		"subdir/file.txt": "hello from a subdirectory!",
	})
}
