package lib

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

const (
	// MapFileName is the per-repository ref -> hash mapping file.
	MapFileName = "map.json"
	// AccessLogFileName is the per-repository ref -> last-access log.
	AccessLogFileName = "access.json"
)

// DefaultCacheRoot computes the default location of the on-disk tarball
// cache: ~/.degit, falling back to the OS temp directory when the home
// directory cannot be determined.
func DefaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".degit")
	}
	return filepath.Join(home, ".degit")
}

// RepoCacheDir returns the cache directory for one repository identity.
func RepoCacheDir(cacheRoot string, repo *types.Repo) string {
	return filepath.Join(cacheRoot, repo.Site, repo.User, repo.Name)
}

// TarballPath returns where the blob for a commit hash lives inside a
// repository cache directory.
func TarballPath(cacheDir, hash string) string {
	return filepath.Join(cacheDir, hash+".tar.gz")
}

// ReadCacheMap loads the ref -> hash mapping for a repository cache
// directory. A missing or unreadable file is an empty mapping, never an
// error.
func ReadCacheMap(cacheDir string) types.CacheMap {
	cached := make(types.CacheMap)
	content, err := os.ReadFile(filepath.Join(cacheDir, MapFileName))
	if err != nil {
		return cached
	}
	if err := json.Unmarshal(content, &cached); err != nil {
		return make(types.CacheMap)
	}
	return cached
}

// UpdateCache records an access-log entry for ref and, when the resolved
// hash changed, rewrites the mapping file and prunes the superseded tarball
// blob if no other ref still references it. Blob deletion is best-effort.
func UpdateCache(cacheDir, ref, hash string, cached types.CacheMap) error {
	if err := logAccess(cacheDir, ref); err != nil {
		return err
	}

	oldHash, ok := cached[ref]
	if ok && oldHash == hash {
		return nil
	}

	cached[ref] = hash
	if err := writeJSONFile(filepath.Join(cacheDir, MapFileName), cached); err != nil {
		return err
	}

	if oldHash == "" {
		return nil
	}
	for _, h := range cached {
		if h == oldHash {
			return nil
		}
	}
	// The old blob is orphaned. Removal failures (e.g. already absent)
	// are swallowed.
	os.Remove(TarballPath(cacheDir, oldHash))
	return nil
}

// logAccess merges {ref: now} into the access-log file.
func logAccess(cacheDir, ref string) error {
	logPath := filepath.Join(cacheDir, AccessLogFileName)

	logs := make(types.AccessLog)
	if content, err := os.ReadFile(logPath); err == nil {
		// A corrupt log starts over; it is bookkeeping, not state.
		_ = json.Unmarshal(content, &logs)
	}
	logs[ref] = time.Now().UTC().Format(time.RFC3339)

	return writeJSONFile(logPath, logs)
}

func writeJSONFile(path string, v any) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0644)
}
