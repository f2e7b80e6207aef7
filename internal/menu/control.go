package menu

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/hbcache"
	"github.com/battlewithbytes/homemenu/internal/platform"
)

// ControlData is an entry's display metadata. Fields flagged custom are user
// overrides and are persisted; the rest are derived and never written.
type ControlData struct {
	Name     string
	Author   string
	Version  string
	IconPath string

	CustomName     bool
	CustomAuthor   bool
	CustomVersion  bool
	CustomIconPath bool
}

// Loaded reports whether name, author and version are all resolved.
func (c *ControlData) Loaded() bool {
	return (c.CustomName || c.Name != "") &&
		(c.CustomAuthor || c.Author != "") &&
		(c.CustomVersion || c.Version != "")
}

func (c *ControlData) SetName(v string) {
	c.Name, c.CustomName = v, true
}

func (c *ControlData) SetAuthor(v string) {
	c.Author, c.CustomAuthor = v, true
}

func (c *ControlData) SetVersion(v string) {
	c.Version, c.CustomVersion = v, true
}

func (c *ControlData) SetIconPath(v string) {
	c.IconPath, c.CustomIconPath = v, true
}

// ClearCustom drops every override. Derived values are recomputed on the
// next load.
func (c *ControlData) ClearCustom() {
	*c = ControlData{}
}

// apply fills every non-custom string field from meta.
func (c *ControlData) apply(meta *platform.ControlMetadata) {
	title, ok := meta.Title()
	if !ok {
		return
	}
	if !c.CustomName {
		c.Name = title.Name
	}
	if !c.CustomAuthor {
		c.Author = title.Author
	}
	if !c.CustomVersion {
		c.Version = meta.DisplayVersion
	}
}

// controlLoader resolves derived control data from the registry and the
// homebrew metadata cache.
type controlLoader struct {
	registry platform.Registry
	cache    *hbcache.Cache
	log      logrus.FieldLogger
}

// enrich fills derived name, author and version. It is a no-op when the
// entry's control data is already resolved.
func (l *controlLoader) enrich(e *Entry) {
	if e.Control.Loaded() {
		return
	}

	var (
		meta *platform.ControlMetadata
		err  error
	)
	switch e.Type {
	case EntryApplication:
		meta, err = l.registry.GetApplicationControlMetadata(e.Application.ID)
	case EntryHomebrew:
		meta, err = l.cache.ReadControl(e.Homebrew.Path)
	default:
		return
	}

	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) {
			l.log.WithError(err).WithField("path", e.Path).Warn("loading control data")
		}
		return
	}
	e.Control.apply(meta)
}

// resolveIcon sets the cached icon path when there is no custom icon and the
// cached file exists.
func (l *controlLoader) resolveIcon(e *Entry) {
	if e.Control.CustomIconPath {
		return
	}

	var icon string
	switch e.Type {
	case EntryApplication:
		icon = l.cache.ApplicationIconPath(e.Application.ID)
	case EntryHomebrew:
		icon = l.cache.HomebrewIconPath(e.Homebrew.Path)
	default:
		return
	}
	if fsutil.FileExists(icon) {
		e.Control.IconPath = icon
	}
}
