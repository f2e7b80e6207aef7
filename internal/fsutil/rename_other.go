//go:build !linux

package fsutil

func renameNoReplace(oldPath, newPath string) error {
	return errUnsupported
}
