package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
	"github.com/gingerrexayers/degit-go/internal/degit/types"
)

// cloneWithTar downloads (or reuses a cached) tarball for the resolved
// commit hash and extracts it into dest.
func (c *Cloner) cloneWithTar(ctx context.Context, dest string) error {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	cacheDir := lib.RepoCacheDir(c.opts.CacheRoot, c.repo)
	cached := lib.ReadCacheMap(cacheDir)

	hash, err := c.resolveTarHash(ctx, cached)
	if err != nil {
		return err
	}
	if hash == "" {
		return &lib.Error{
			Code:    lib.CodeMissingRef,
			Message: fmt.Sprintf("could not find commit hash for %s", c.repo.Ref),
			Ref:     c.repo.Ref,
		}
	}

	tarURL := lib.ArchiveURL(c.repo, hash)

	// Cache-enabled downloads become the cache blob itself; cache-disabled
	// downloads are transient files inside the destination.
	var file string
	if c.opts.DisableCache {
		file = filepath.Join(dest, hash+".tar.gz")
	} else {
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			return err
		}
		file = lib.TarballPath(cacheDir, hash)
	}

	switch {
	case c.opts.OfflineMode:
		if !lib.FileExists(file) {
			return &lib.Error{
				Code:    lib.CodeCacheMiss,
				Message: fmt.Sprintf("could not find %s in cache", filepath.Base(file)),
				Ref:     c.repo.Ref,
			}
		}
	case lib.FileExists(file) && !c.opts.DisableCache:
		// Blob already on disk, skip the network.
		c.emitter.Info(lib.Event{Code: lib.EvFileExists, Message: fmt.Sprintf("%s already exists locally", filepath.Base(file))})
	default:
		if c.opts.Proxy != "" {
			c.emitter.Info(lib.Event{Code: lib.EvProxy, Message: fmt.Sprintf("using proxy %s", c.opts.Proxy)})
		}
		c.emitter.Info(lib.Event{Code: lib.EvDownloading, Message: fmt.Sprintf("downloading %s", tarURL)})
		if err := lib.DownloadFile(ctx, tarURL, file, c.opts.Proxy); err != nil {
			return &lib.Error{
				Code:    lib.CodeCouldNotDownload,
				Message: fmt.Sprintf("could not download %s", tarURL),
				URL:     tarURL,
				Err:     err,
			}
		}
	}

	if !c.opts.DisableCache && !c.opts.OfflineMode {
		if err := lib.UpdateCache(cacheDir, c.repo.Ref, hash, cached); err != nil {
			return err
		}
	}

	c.emitter.Info(lib.Event{Code: lib.EvExtracting, Message: fmt.Sprintf("extracting %s to %s", c.repo.SubDir, dest)})
	extracted, err := lib.ExtractTarball(file, dest, c.repo.SubDir)
	if c.opts.DisableCache {
		os.Remove(file)
	}
	if err != nil {
		return err
	}
	if extracted == 0 {
		if c.repo.SubDir != "" {
			return lib.NewError(lib.CodeNoFiles,
				fmt.Sprintf("no files to extract; is the sub-directory %q correct?", c.repo.SubDir))
		}
		return lib.NewError(lib.CodeNoFiles, "no files to extract")
	}
	return nil
}

// resolveTarHash applies the option matrix for tar-mode hash resolution.
func (c *Cloner) resolveTarHash(ctx context.Context, cached types.CacheMap) (string, error) {
	ref := c.repo.Ref

	if c.opts.OfflineMode {
		if lib.IsCommitHash(ref) {
			return strings.ToLower(ref), nil
		}
		if hash, ok := cached[ref]; ok {
			c.emitter.Info(lib.Event{Code: lib.EvUsingCache, Message: fmt.Sprintf("using cached commit hash for %s", ref)})
			return hash, nil
		}
		return "", &lib.Error{
			Code:    lib.CodeMissingRef,
			Message: fmt.Sprintf("could not find ref %q in the offline cache", ref),
			Ref:     ref,
		}
	}

	// The cache mapping is never consulted online: a mapped ref would pin
	// the destination to whatever it pointed at on first use. Online, the
	// mapping only feeds blob reuse and orphan pruning after a fresh
	// resolution moves a ref to a new hash.
	hash, err := c.resolver.ResolveHash(ctx, c.repo)
	if err != nil {
		return "", err
	}
	if hash != "" {
		c.emitter.Info(lib.Event{Code: lib.EvFoundMatch, Message: fmt.Sprintf("found matching commit hash %s", hash)})
	}
	return hash, nil
}
