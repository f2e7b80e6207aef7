package menu

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/platform"
)

// legacyRecord is an entry of the flat pre-folder layout. Folder membership
// is by name, and overrides carry no per-field custom flag.
type legacyRecord struct {
	Type          EntryType `json:"type"`
	Folder        string    `json:"folder"`
	Name          string    `json:"name"`
	Author        string    `json:"author"`
	Version       string    `json:"version"`
	IconPath      string    `json:"icon_path"`
	ApplicationID string    `json:"application_id"`
	NroPath       string    `json:"nro_path"`
	NroArgv       string    `json:"nro_argv"`
}

func decodeLegacyRecord(data []byte) (legacyRecord, error) {
	var r legacyRecord
	if err := json.Unmarshal(jsonc.ToJSON(data), &r); err != nil {
		return r, fmt.Errorf("parsing legacy record: %w", err)
	}
	return r, nil
}

// control returns the legacy overrides. The legacy format has no notion of
// derived data: a custom name marks every field as custom.
func (r *legacyRecord) control() ControlData {
	custom := r.Name != ""
	return ControlData{
		Name:           r.Name,
		Author:         r.Author,
		Version:        r.Version,
		IconPath:       r.IconPath,
		CustomName:     custom,
		CustomAuthor:   custom,
		CustomVersion:  custom,
		CustomIconPath: custom,
	}
}

// ParseApplicationID parses a hex application ID, with or without a 0x prefix.
func ParseApplicationID(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	id, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid application id %q", s)
	}
	return id, nil
}

// migrateLegacy converts every legacy record into the catalog root, drops
// records whose application or executable is gone, appends the applications
// no record referenced and finally deletes the legacy root. *idx is the
// index counter shared with bootstrap population.
func (c *Catalog) migrateLegacy(idx *uint32) error {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return fmt.Errorf("creating catalog root: %w", err)
	}

	apps := append([]platform.ApplicationRecord(nil), c.apps...)

	files, err := os.ReadDir(c.legacyRoot)
	if err != nil {
		return fmt.Errorf("reading legacy menu: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		path := filepath.Join(c.legacyRoot, f.Name())
		log := c.log.WithField("path", path)

		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).Warn("skipping unreadable legacy entry")
			continue
		}
		old, err := decodeLegacyRecord(data)
		if err != nil {
			log.WithError(err).Warn("skipping malformed legacy entry")
			continue
		}

		base := c.root
		if old.Folder != "" {
			if base, err = c.rootFolderPath(old.Folder); err != nil {
				return err
			}
		}

		skipOccupied(base, idx)
		e := Entry{
			Type:    old.Type,
			Path:    EntryPath(base, *idx),
			Index:   *idx,
			Control: old.control(),
		}
		*idx++

		switch old.Type {
		case EntryApplication:
			id, err := ParseApplicationID(old.ApplicationID)
			if err != nil {
				log.WithError(err).Warn("dropping legacy application entry")
				continue
			}
			e.Application.ID = id

			found := -1
			for i, rec := range apps {
				if rec.ID == id {
					found = i
					break
				}
			}
			if found < 0 {
				log.WithField("app_id", fmt.Sprintf("%016X", id)).
					Warn("dropping legacy application entry whose application is not installed")
				continue
			}
			e.Application.Record = apps[found]
			apps = append(apps[:found], apps[found+1:]...)

			if err := c.Save(&e); err != nil {
				return err
			}
		case EntryHomebrew:
			if !fsutil.FileExists(old.NroPath) {
				log.WithField("nro_path", old.NroPath).
					Warn("dropping legacy homebrew entry whose executable is missing")
				continue
			}
			e.Homebrew = HomebrewInfo{Path: old.NroPath, Argv: old.NroArgv}

			if err := c.Save(&e); err != nil {
				return err
			}
		}
	}

	if err := c.populate(apps, idx); err != nil {
		return err
	}

	if err := os.RemoveAll(c.legacyRoot); err != nil {
		return fmt.Errorf("removing legacy menu: %w", err)
	}
	return nil
}

// rootFolderPath returns the directory of the root folder named name,
// creating the folder if no root folder has that name.
func (c *Catalog) rootFolderPath(name string) (string, error) {
	files, err := os.ReadDir(c.root)
	if err != nil {
		return "", fmt.Errorf("reading catalog root: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if _, ok := ParseEntryIndex(f.Name()); !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.root, f.Name()))
		if err != nil {
			continue
		}
		e, err := DecodeRecord(data)
		if err != nil || !e.Is(EntryFolder) {
			continue
		}
		if e.Folder.Name == name {
			return filepath.Join(c.root, e.Folder.FSName), nil
		}
	}

	folder, err := c.CreateFolder(c.root, name, NextFreeIndex(c.root))
	if err != nil {
		return "", err
	}
	return folder.FolderPath(), nil
}
