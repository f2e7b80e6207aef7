// Package platform describes the console services the catalog consumes: the
// installed-application registry and the records it hands out.
package platform

import "errors"

// ErrNotFound is returned by a Registry when the application is not installed
// or carries no control metadata.
var ErrNotFound = errors.New("not found")

// LanguageCount is the number of localized title slots in control metadata.
const LanguageCount = 16

// NoPreferredLanguage marks control metadata without a system-language hint.
const NoPreferredLanguage = -1

// ApplicationRecord is the registry's view of one installed application.
type ApplicationRecord struct {
	ID   uint64 `json:"application_id"`
	Type uint8  `json:"type"`
}

// MetaStatus is the content-meta status of an installed application.
type MetaStatus struct {
	MetaType  uint8  `json:"meta_type"`
	StorageID uint8  `json:"storage_id"`
	Version   uint32 `json:"version"`
}

// Title is one localized name/author pair.
type Title struct {
	Name   string `json:"name"`
	Author string `json:"author"`
}

// ControlMetadata is the localized display metadata of an application or a
// homebrew executable.
type ControlMetadata struct {
	Titles            [LanguageCount]Title `json:"titles"`
	PreferredLanguage int                  `json:"preferred_language"`
	DisplayVersion    string               `json:"display_version"`
}

// Title returns the entry to display: the preferred-language title when it has
// a name, otherwise the first title with both a name and an author.
func (m *ControlMetadata) Title() (Title, bool) {
	if p := m.PreferredLanguage; p >= 0 && p < LanguageCount && m.Titles[p].Name != "" {
		return m.Titles[p], true
	}
	for _, t := range m.Titles {
		if t.Name != "" && t.Author != "" {
			return t, true
		}
	}
	return Title{}, false
}

// Registry is the authoritative list of installed applications.
type Registry interface {
	ListApplicationRecords() ([]ApplicationRecord, error)
	GetApplicationMetaStatus(appID uint64) (MetaStatus, error)
	GetApplicationControlMetadata(appID uint64) (*ControlMetadata, error)
}
