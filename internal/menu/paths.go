package menu

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
)

const (
	// RecordSuffix terminates every entry record file name.
	RecordSuffix = ".m.json"

	folderPrefix = "folder_"

	// placeholderFolderName replaces a folder name with no ASCII left in it.
	placeholderFolderName = "null"
)

// EntryPath is the record file for index in dir.
func EntryPath(dir string, index uint32) string {
	return filepath.Join(dir, strconv.FormatUint(uint64(index), 10)+RecordSuffix)
}

// ParseEntryIndex extracts the index from a record file name. Names with
// leading zeros are rejected.
func ParseEntryIndex(name string) (uint32, bool) {
	stem, ok := strings.CutSuffix(name, RecordSuffix)
	if !ok || stem == "" {
		return 0, false
	}
	idx, err := strconv.ParseUint(stem, 10, 32)
	if err != nil {
		return 0, false
	}
	// Only the canonical spelling names a record: "01" would alias "1".
	if stem != strconv.FormatUint(idx, 10) {
		return 0, false
	}
	return uint32(idx), true
}

// NextFreeIndex returns the lowest index in dir with no record file, reusing
// gaps left by removed or moved entries.
func NextFreeIndex(dir string) uint32 {
	var idx uint32
	for fsutil.Exists(EntryPath(dir, idx)) {
		idx++
	}
	return idx
}

// Transliterate drops every non-ASCII byte from name, returning a fixed
// placeholder if nothing is left. Path separators and control bytes are
// dropped as well since the result becomes a directory name.
func Transliterate(name string) string {
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 0x80 || c < 0x20 || c == 0x7f || c == '/' || c == '\\' {
			continue
		}
		b.WriteByte(c)
	}
	if b.Len() == 0 {
		return placeholderFolderName
	}
	return b.String()
}

// FolderDirPath is the backing directory of a folder in parentDir.
func FolderDirPath(parentDir, asciiName string, suffix uint32) string {
	return filepath.Join(parentDir, folderPrefix+asciiName+"_"+strconv.FormatUint(uint64(suffix), 10))
}

// NextFreeFolderSuffix returns the lowest suffix for which no folder
// directory named after asciiName exists yet in parentDir.
func NextFreeFolderSuffix(parentDir, asciiName string) uint32 {
	var suffix uint32
	for fsutil.Exists(FolderDirPath(parentDir, asciiName, suffix)) {
		suffix++
	}
	return suffix
}

// nextFolderDir allocates a fresh backing directory path for a folder named
// name in parentDir.
func nextFolderDir(parentDir, name string) string {
	ascii := Transliterate(name)
	return FolderDirPath(parentDir, ascii, NextFreeFolderSuffix(parentDir, ascii))
}
