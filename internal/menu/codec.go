package menu

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ErrInvalidFolder is returned when a folder record lacks its display name or
// its filesystem name.
var ErrInvalidFolder = errors.New("folder record requires name and fs_name")

// record is the on-disk document of one entry. The index is not stored; it
// is the record file's name.
type record struct {
	Type EntryType `json:"type"`

	CustomName     *string `json:"custom_name,omitempty"`
	CustomAuthor   *string `json:"custom_author,omitempty"`
	CustomVersion  *string `json:"custom_version,omitempty"`
	CustomIconPath *string `json:"custom_icon_path,omitempty"`

	ApplicationID uint64 `json:"application_id,omitempty"`

	NroPath string `json:"nro_path,omitempty"`
	NroArgv string `json:"nro_argv,omitempty"`

	Name   string `json:"name,omitempty"`
	FSName string `json:"fs_name,omitempty"`
}

func customField(set bool, v string) *string {
	if !set {
		return nil
	}
	return &v
}

// EncodeRecord serializes the persistent part of e: its type, its payload and
// any custom control fields.
func EncodeRecord(e *Entry) ([]byte, error) {
	r := record{
		Type:           e.Type,
		CustomName:     customField(e.Control.CustomName, e.Control.Name),
		CustomAuthor:   customField(e.Control.CustomAuthor, e.Control.Author),
		CustomVersion:  customField(e.Control.CustomVersion, e.Control.Version),
		CustomIconPath: customField(e.Control.CustomIconPath, e.Control.IconPath),
	}

	switch e.Type {
	case EntryApplication:
		r.ApplicationID = e.Application.ID
	case EntryHomebrew:
		r.NroPath = e.Homebrew.Path
		r.NroArgv = e.Homebrew.Argv
	case EntryFolder:
		r.Name = e.Folder.Name
		r.FSName = e.Folder.FSName
	case EntryInvalid:
		return nil, fmt.Errorf("cannot encode invalid entry %s", e.Path)
	}

	return json.MarshalIndent(r, "", "  ")
}

// DecodeRecord parses a record document. Comments and trailing commas are
// tolerated. An unknown or missing type decodes to EntryInvalid without
// error. Path and Index are left for the caller to set.
func DecodeRecord(data []byte) (Entry, error) {
	var r record
	if err := json.Unmarshal(jsonc.ToJSON(data), &r); err != nil {
		return Entry{}, fmt.Errorf("parsing record: %w", err)
	}

	e := Entry{Type: r.Type}
	if !e.Type.Valid() {
		return Entry{Type: EntryInvalid}, nil
	}

	if r.CustomName != nil {
		e.Control.SetName(*r.CustomName)
	}
	if r.CustomAuthor != nil {
		e.Control.SetAuthor(*r.CustomAuthor)
	}
	if r.CustomVersion != nil {
		e.Control.SetVersion(*r.CustomVersion)
	}
	if r.CustomIconPath != nil {
		e.Control.SetIconPath(*r.CustomIconPath)
	}

	switch e.Type {
	case EntryApplication:
		e.Application.ID = r.ApplicationID
		e.Application.Record.ID = r.ApplicationID
	case EntryHomebrew:
		e.Homebrew = HomebrewInfo{Path: r.NroPath, Argv: r.NroArgv}
	case EntryFolder:
		if r.Name == "" || r.FSName == "" {
			return e, ErrInvalidFolder
		}
		e.Folder = FolderInfo{Name: r.Name, FSName: r.FSName}
	}
	return e, nil
}
