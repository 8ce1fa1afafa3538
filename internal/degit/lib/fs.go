package lib

import (
	"io"
	"os"
	"path/filepath"
)

// DirIsEmpty reports whether dir has no entries. A missing directory counts
// as empty.
func DirIsEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}

// ClearDir removes every entry of dir but keeps dir itself.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// MoveChildren moves every entry of src into dst. Entries move by rename,
// so directories need both sides on the same filesystem; the stash
// directory is allocated next to the destination for exactly that reason.
func MoveChildren(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		if err := movePath(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// movePath renames from onto to, retrying as a copy and delete when from is
// a regular file and the rename fails, which covers moves across filesystem
// boundaries.
func movePath(from, to string) error {
	renameErr := os.Rename(from, to)
	if renameErr == nil {
		return nil
	}
	info, err := os.Lstat(from)
	if err != nil || !info.Mode().IsRegular() {
		return renameErr
	}
	if err := CopyFile(from, to); err != nil {
		return renameErr
	}
	if err := os.Chmod(to, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Remove(from)
}

// MergeDirs moves the contents of src into dst, overwriting on conflict.
// Directories present on both sides are merged recursively; everything else
// replaces whatever is in the way.
func MergeDirs(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			if info, err := os.Stat(to); err == nil && info.IsDir() {
				if err := MergeDirs(from, to); err != nil {
					return err
				}
				continue
			}
		}
		if err := os.RemoveAll(to); err != nil {
			return err
		}
		if err := movePath(from, to); err != nil {
			return err
		}
	}
	return nil
}

// CopyFile copies a file from src to dst. If dst does not exist, it is
// created. If it does exist, it is overwritten.
func CopyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	// Ensure the data is written to stable storage.
	return destFile.Sync()
}

// FileExists reports whether path exists, without following symlinks.
func FileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
