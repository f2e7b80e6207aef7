// Package menu is the launcher's hierarchical application catalog: an ordered,
// foldered collection of entry records kept on disk, one file per entry.
package menu

import (
	"fmt"
	"path/filepath"

	"github.com/battlewithbytes/homemenu/internal/platform"
)

// EntryType discriminates the payload an Entry carries.
type EntryType uint32

const (
	EntryInvalid EntryType = iota
	EntryApplication
	EntryHomebrew
	EntryFolder
	EntryMiiEdit
	EntryWebBrowser
	EntryUserPage
	EntrySettings
	EntryThemes
	EntryControllers
	EntryAlbum
)

// SpecialEntryTypes lists the fixed system shortcuts in bootstrap order.
var SpecialEntryTypes = []EntryType{
	EntryMiiEdit,
	EntryWebBrowser,
	EntryUserPage,
	EntrySettings,
	EntryThemes,
	EntryControllers,
	EntryAlbum,
}

var entryTypeNames = map[EntryType]string{
	EntryInvalid:     "invalid",
	EntryApplication: "application",
	EntryHomebrew:    "homebrew",
	EntryFolder:      "folder",
	EntryMiiEdit:     "mii-edit",
	EntryWebBrowser:  "web-browser",
	EntryUserPage:    "user-page",
	EntrySettings:    "settings",
	EntryThemes:      "themes",
	EntryControllers: "controllers",
	EntryAlbum:       "album",
}

func (t EntryType) String() string {
	if n, ok := entryTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("EntryType(%d)", uint32(t))
}

// Valid reports whether t is one of the known entry kinds.
func (t EntryType) Valid() bool {
	return t > EntryInvalid && t <= EntryAlbum
}

// IsSpecial reports whether t is a fixed system shortcut.
func (t EntryType) IsSpecial() bool {
	return t >= EntryMiiEdit && t <= EntryAlbum
}

// ApplicationInfo is the payload of an application entry.
type ApplicationInfo struct {
	ID         uint64
	Record     platform.ApplicationRecord
	MetaStatus platform.MetaStatus
}

// HomebrewInfo is the payload of a homebrew entry.
type HomebrewInfo struct {
	Path string
	Argv string
}

// FolderInfo is the payload of a folder entry. FSName is the base name of
// the directory holding the folder's children.
type FolderInfo struct {
	Name   string
	FSName string
}

// Entry is one record in the catalog. Only the payload matching Type is
// meaningful.
type Entry struct {
	Type    EntryType
	Path    string
	Index   uint32
	Control ControlData

	Application ApplicationInfo
	Homebrew    HomebrewInfo
	Folder      FolderInfo
}

// Is reports whether the entry is of the given type.
func (e *Entry) Is(t EntryType) bool {
	return e.Type == t
}

// Dir returns the directory containing the entry's record file.
func (e *Entry) Dir() string {
	return filepath.Dir(e.Path)
}

// FolderPath returns the directory holding a folder entry's children, or ""
// for other entry kinds.
func (e *Entry) FolderPath() string {
	if e.Type != EntryFolder {
		return ""
	}
	return filepath.Join(e.Dir(), e.Folder.FSName)
}

// DisplayName is the name shown for the entry: the folder name for folders,
// otherwise the resolved control name.
func (e *Entry) DisplayName() string {
	if e.Type == EntryFolder {
		return e.Folder.Name
	}
	return e.Control.Name
}
