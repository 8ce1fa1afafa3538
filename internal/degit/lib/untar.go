package lib

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ExtractTarball extracts the gzipped tarball at src into dest.
//
// Hosted archives wrap everything in a synthetic top-level folder, so with
// no sub-directory exactly one leading path segment is stripped. With a
// sub-directory, extraction is restricted to that subtree and one segment
// per sub-directory depth is stripped, so its contents land at the
// destination root. When the sub-directory turns out to name a single file
// rather than a folder, one fewer segment is stripped so the file itself
// lands in dest. Returns the number of files extracted.
func ExtractTarball(src, dest, subDir string) (int, error) {
	strip := 1
	prefix := ""
	if subDir != "" {
		strip = len(strings.Split(subDir, "/"))
		prefix = strings.TrimPrefix(subDir, "/")

		isFile, err := tarballEntryIsFile(src, prefix)
		if err != nil {
			return 0, err
		}
		if isFile {
			strip--
		}
	}

	extracted := 0
	err := walkTarball(src, func(hdr *tar.Header, r io.Reader) error {
		segments := strings.Split(path.Clean(hdr.Name), "/")
		for _, segment := range segments {
			if segment == ".." {
				return nil
			}
		}
		if len(segments) < 2 {
			// The synthetic top-level folder itself.
			return nil
		}

		rel := strings.Join(segments[1:], "/")
		if prefix != "" && rel != prefix && !strings.HasPrefix(rel, prefix+"/") {
			return nil
		}
		if len(segments) <= strip {
			return nil
		}
		target := filepath.Join(dest, filepath.Join(segments[strip:]...))

		switch hdr.Typeflag {
		case tar.TypeDir:
			return os.MkdirAll(target, 0755)
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, r); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			extracted++
			return nil
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			return os.Symlink(hdr.Linkname, target)
		default:
			// pax headers and other special entries
			return nil
		}
	})
	if err != nil {
		return extracted, err
	}
	return extracted, nil
}

// tarballEntryIsFile reports whether the entry at prefix (relative to the
// archive's synthetic top-level folder) is a regular file.
func tarballEntryIsFile(src, prefix string) (bool, error) {
	isFile := false
	err := walkTarball(src, func(hdr *tar.Header, _ io.Reader) error {
		segments := strings.Split(path.Clean(hdr.Name), "/")
		if len(segments) < 2 {
			return nil
		}
		if strings.Join(segments[1:], "/") == prefix && hdr.Typeflag == tar.TypeReg {
			isFile = true
		}
		return nil
	})
	return isFile, err
}

// walkTarball streams the entries of a gzipped tarball through fn.
func walkTarball(src string, fn func(hdr *tar.Header, r io.Reader) error) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("could not read tarball %s: %w", src, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read tarball %s: %w", src, err)
		}
		if err := fn(hdr, tr); err != nil {
			return err
		}
	}
}
