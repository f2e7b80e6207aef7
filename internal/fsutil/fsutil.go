// Package fsutil holds the small filesystem primitives the catalog is built
// on: existence checks, atomic whole-file writes and a rename that refuses to
// replace an existing target.
package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExist is returned by RenameNoReplace when the target already exists.
var ErrExist = os.ErrExist

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// FileExists reports whether a regular file exists at path.
func FileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// DirExists reports whether a directory exists at path.
func DirExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// WriteFileAtomic writes data to a sibling temp file and renames it over path,
// so readers observe either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// RenameNoReplace renames oldPath to newPath, failing with ErrExist if
// newPath is already taken.
func RenameNoReplace(oldPath, newPath string) error {
	err := renameNoReplace(oldPath, newPath)
	if errors.Is(err, errUnsupported) {
		if Exists(newPath) {
			return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: ErrExist}
		}
		return os.Rename(oldPath, newPath)
	}
	return err
}

var errUnsupported = errors.New("rename without replace not supported")
