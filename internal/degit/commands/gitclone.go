package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gingerrexayers/degit-go/internal/degit/lib"
)

// stagingDirName is the hidden subfolder a sub-directory clone lands in
// before its contents are promoted to the destination root.
const stagingDirName = ".degit-staging"

// cloneWithGit performs a shallow clone with the external git client,
// strips the VCS metadata and, for sub-directory clones, promotes the
// requested subtree to the destination root.
func (c *Cloner) cloneWithGit(ctx context.Context, dest string) error {
	if err := lib.GitAvailable(ctx); err != nil {
		return &lib.Error{
			Code:    lib.CodeMissingGit,
			Message: "could not run git: make sure it is installed and on your PATH",
			Err:     err,
		}
	}

	url := c.opts.CloneURL
	if url == "" {
		url = c.repo.URL
	}

	target := dest
	if c.repo.SubDir != "" {
		target = filepath.Join(dest, stagingDirName)
	}
	if err := os.MkdirAll(target, 0755); err != nil {
		return err
	}

	if c.repo.Ref == "HEAD" {
		if _, err := lib.RunGit(ctx, "", "clone", "--depth", "1", url, target); err != nil {
			return err
		}
	} else {
		// A pinned ref cannot go through clone --depth 1, which only
		// accepts branch and tag names. Fetch FETCH_HEAD instead.
		if _, err := lib.RunGit(ctx, target, "init"); err != nil {
			return err
		}
		if _, err := lib.RunGit(ctx, target, "remote", "add", "origin", url); err != nil {
			return err
		}
		fetchArgs := append([]string{"fetch", "--depth", "1", "origin"}, lib.FetchRefArgs(c.repo.Ref)...)
		if _, err := lib.RunGit(ctx, target, fetchArgs...); err != nil {
			return err
		}
		if _, err := lib.RunGit(ctx, target, "checkout", "FETCH_HEAD"); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(filepath.Join(target, ".git")); err != nil {
		return err
	}

	if c.repo.SubDir != "" {
		if err := c.promoteSubDir(target, dest); err != nil {
			return err
		}
	}

	empty, err := lib.DirIsEmpty(dest)
	if err != nil {
		return err
	}
	if empty {
		return lib.NewError(lib.CodeNoFiles, "no files to extract")
	}
	return nil
}

// promoteSubDir moves the requested sub-directory's contents from the
// staging clone up into the destination root and removes the staging
// folder. When the sub-directory names a single file, its parent directory
// is promoted instead.
func (c *Cloner) promoteSubDir(staging, dest string) error {
	src := filepath.Join(staging, filepath.FromSlash(strings.TrimPrefix(c.repo.SubDir, "/")))

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return lib.NewError(lib.CodeNoFiles,
				fmt.Sprintf("no files to extract; is the sub-directory %q correct?", c.repo.SubDir))
		}
		return err
	}
	if !info.IsDir() {
		src = filepath.Dir(src)
	}

	if err := lib.MoveChildren(src, dest); err != nil {
		return err
	}
	return os.RemoveAll(staging)
}
