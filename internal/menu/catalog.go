package menu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/hbcache"
	"github.com/battlewithbytes/homemenu/internal/platform"
)

var (
	// ErrMoveIntoSelf is returned when a folder would be moved into itself or
	// one of its descendants.
	ErrMoveIntoSelf = errors.New("cannot move a folder into itself")

	// ErrDifferentFolders is returned when swapping entries of two folders.
	ErrDifferentFolders = errors.New("entries are in different folders")

	// ErrAtRoot is returned when moving a root entry to its parent.
	ErrAtRoot = errors.New("entry is already at the catalog root")

	// ErrInvalidRecord is returned by LoadEntry for records of unknown type.
	ErrInvalidRecord = errors.New("invalid entry record")

	// ErrNoRegistry and ErrNoRoot are returned by New for incomplete Options.
	ErrNoRegistry = errors.New("catalog requires an application registry")
	ErrNoRoot     = errors.New("catalog requires a root directory")

	// ErrNotFolder is returned when a non-folder entry is used as a folder.
	ErrNotFolder = errors.New("entry is not a folder")

	// ErrNoEntry is returned by Lookup when an address has no entry.
	ErrNoEntry = errors.New("no entry at address")
)

// Options configures a Catalog.
type Options struct {
	// Root is the catalog root directory.
	Root string
	// LegacyRoot holds the flat pre-folder layout consumed by Initialize.
	LegacyRoot string
	// DefaultHomebrew are the executables added first on a fresh catalog.
	DefaultHomebrew []string

	Registry platform.Registry
	Cache    *hbcache.Cache
	Logger   logrus.FieldLogger
}

// Catalog is the filesystem-backed launcher layout. Nothing but the
// installed-application list is cached; every read rescans the disk.
//
// A Catalog has a single owner and is not safe for concurrent use.
type Catalog struct {
	root            string
	legacyRoot      string
	defaultHomebrew []string

	registry platform.Registry
	control  controlLoader
	log      logrus.FieldLogger

	apps       []platform.ApplicationRecord
	appsLoaded bool
}

// New creates a Catalog. The root directory is created by Initialize.
// Root and Registry are required.
func New(opts Options) (*Catalog, error) {
	if opts.Root == "" {
		return nil, ErrNoRoot
	}
	if opts.Registry == nil {
		return nil, ErrNoRegistry
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	cache := opts.Cache
	if cache == nil {
		cache = hbcache.New(filepath.Join(opts.Root, ".cache"))
	}
	return &Catalog{
		root:            filepath.Clean(opts.Root),
		legacyRoot:      opts.LegacyRoot,
		defaultHomebrew: opts.DefaultHomebrew,
		registry:        opts.Registry,
		control:         controlLoader{registry: opts.Registry, cache: cache, log: log},
		log:             log,
	}, nil
}

// Root returns the catalog root directory.
func (c *Catalog) Root() string {
	return c.root
}

// ApplicationRecords returns the cached installed-application list, loading
// it from the registry on first use.
func (c *Catalog) ApplicationRecords() ([]platform.ApplicationRecord, error) {
	if !c.appsLoaded {
		if err := c.Refresh(); err != nil {
			return nil, err
		}
	}
	return c.apps, nil
}

// Refresh reloads the installed-application list from the registry.
func (c *Catalog) Refresh() error {
	apps, err := c.registry.ListApplicationRecords()
	if err != nil {
		return fmt.Errorf("listing applications: %w", err)
	}
	c.apps = apps
	c.appsLoaded = true
	return nil
}

func (c *Catalog) findApplicationRecord(appID uint64) (platform.ApplicationRecord, bool) {
	for _, rec := range c.apps {
		if rec.ID == appID {
			return rec, true
		}
	}
	return platform.ApplicationRecord{}, false
}

// Save writes e's record file.
func (c *Catalog) Save(e *Entry) error {
	data, err := EncodeRecord(e)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(e.Path, data, 0644); err != nil {
		return fmt.Errorf("saving entry %s: %w", e.Path, err)
	}
	return nil
}

// LoadEntries returns the entries of dir in ascending index order, with
// control data resolved. Malformed records are logged and skipped.
func (c *Catalog) LoadEntries(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", dir, err)
	}

	if _, err := c.ApplicationRecords(); err != nil {
		c.log.WithError(err).Warn("application records unavailable")
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), RecordSuffix) {
			continue
		}
		path := filepath.Join(dir, f.Name())

		idx, ok := ParseEntryIndex(f.Name())
		if !ok {
			c.log.WithField("path", path).Warn("skipping entry with malformed file name")
			continue
		}

		e, err := c.loadRecord(path, idx)
		if err != nil {
			c.log.WithError(err).WithField("path", path).Warn("skipping entry")
			continue
		}
		if e.Type == EntryInvalid {
			c.log.WithField("path", path).Warn("skipping entry of unknown type")
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Index < entries[j].Index })
	return entries, nil
}

// LoadEntry loads the single record at path.
func (c *Catalog) LoadEntry(path string) (Entry, error) {
	idx, ok := ParseEntryIndex(filepath.Base(path))
	if !ok {
		return Entry{}, fmt.Errorf("%s: not an entry record", path)
	}
	if _, err := c.ApplicationRecords(); err != nil {
		c.log.WithError(err).Warn("application records unavailable")
	}

	e, err := c.loadRecord(path, idx)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", path, err)
	}
	if e.Type == EntryInvalid {
		return Entry{}, fmt.Errorf("%s: %w", path, ErrInvalidRecord)
	}
	return e, nil
}

func (c *Catalog) loadRecord(path string, idx uint32) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, err
	}
	e, err := DecodeRecord(data)
	if err != nil {
		return Entry{}, err
	}
	e.Path = path
	e.Index = idx

	switch e.Type {
	case EntryApplication:
		log := c.log.WithField("app_id", fmt.Sprintf("%016X", e.Application.ID))
		st, err := c.registry.GetApplicationMetaStatus(e.Application.ID)
		if err != nil {
			log.WithError(err).Warn("application entry has no meta status")
		} else {
			e.Application.MetaStatus = st
		}
		if rec, ok := c.findApplicationRecord(e.Application.ID); ok {
			e.Application.Record = rec
		} else {
			log.Warn("application entry has no application record")
		}
		c.control.resolveIcon(&e)
		c.control.enrich(&e)
	case EntryHomebrew:
		c.control.resolveIcon(&e)
		c.control.enrich(&e)
	}
	return e, nil
}

// ReloadApplicationInfo refreshes an application entry's meta status and
// record, reloading the installed-application list.
func (c *Catalog) ReloadApplicationInfo(e *Entry) error {
	if !e.Is(EntryApplication) {
		return nil
	}
	log := c.log.WithField("app_id", fmt.Sprintf("%016X", e.Application.ID))

	if st, err := c.registry.GetApplicationMetaStatus(e.Application.ID); err != nil {
		log.WithError(err).Warn("unable to reload application meta status")
	} else {
		e.Application.MetaStatus = st
	}

	if err := c.Refresh(); err != nil {
		return err
	}
	if rec, ok := c.findApplicationRecord(e.Application.ID); ok {
		e.Application.Record = rec
	} else {
		log.Warn("unable to reload application record")
	}
	return nil
}

// CreateFolder creates a folder named name at index in parent.
func (c *Catalog) CreateFolder(parent, name string, index uint32) (Entry, error) {
	if name == "" {
		return Entry{}, ErrInvalidFolder
	}
	dir := nextFolderDir(parent, name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return Entry{}, fmt.Errorf("creating folder directory: %w", err)
	}

	e := Entry{
		Type:   EntryFolder,
		Path:   EntryPath(parent, index),
		Index:  index,
		Folder: FolderInfo{Name: name, FSName: filepath.Base(dir)},
	}
	if err := c.Save(&e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// CreateHomebrewEntry adds a homebrew entry at index in parent. Unlike
// application entries, its control data is resolved right away.
func (c *Catalog) CreateHomebrewEntry(parent, execPath, argv string, index uint32) (Entry, error) {
	e := Entry{
		Type:     EntryHomebrew,
		Path:     EntryPath(parent, index),
		Index:    index,
		Homebrew: HomebrewInfo{Path: execPath, Argv: argv},
	}
	c.control.enrich(&e)
	c.control.resolveIcon(&e)

	if err := c.Save(&e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// RegisterApplicationEntry appends an entry for a newly installed
// application at the next free index of the catalog root.
func (c *Catalog) RegisterApplicationEntry(rec platform.ApplicationRecord) (Entry, error) {
	if err := os.MkdirAll(c.root, 0755); err != nil {
		return Entry{}, fmt.Errorf("creating catalog root: %w", err)
	}
	idx := NextFreeIndex(c.root)
	e := Entry{
		Type:        EntryApplication,
		Path:        EntryPath(c.root, idx),
		Index:       idx,
		Application: ApplicationInfo{ID: rec.ID, Record: rec},
	}
	if err := c.Save(&e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Move relocates e into dir at dir's next free index. A folder's backing
// directory is moved first, under a name allocated in dir.
func (c *Catalog) Move(e *Entry, dir string) error {
	dir = filepath.Clean(dir)

	if e.Is(EntryFolder) {
		oldFS := e.FolderPath()
		if within(dir, oldFS) {
			return ErrMoveIntoSelf
		}
		newFS := nextFolderDir(dir, e.Folder.Name)
		if err := os.Rename(oldFS, newFS); err != nil {
			return fmt.Errorf("moving folder directory: %w", err)
		}
		e.Folder.FSName = filepath.Base(newFS)
	}

	idx := NextFreeIndex(dir)
	newPath := EntryPath(dir, idx)
	if err := os.Rename(e.Path, newPath); err != nil {
		return fmt.Errorf("moving entry: %w", err)
	}
	e.Path = newPath
	e.Index = idx

	return c.Save(e)
}

// MoveToParent moves e out of its folder into the folder's parent.
func (c *Catalog) MoveToParent(e *Entry) error {
	dir := filepath.Clean(e.Dir())
	if dir == c.root {
		return ErrAtRoot
	}
	return c.Move(e, filepath.Dir(dir))
}

// MoveToIndex renames e to index within its folder. It reports false, and
// changes nothing, when index is already taken.
func (c *Catalog) MoveToIndex(e *Entry, index uint32) (bool, error) {
	newPath := EntryPath(e.Dir(), index)
	if err := fsutil.RenameNoReplace(e.Path, newPath); err != nil {
		if errors.Is(err, fsutil.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("moving entry to index %d: %w", index, err)
	}
	e.Path = newPath
	e.Index = index
	return true, nil
}

// SwapOrder exchanges the positions of a and b, which must share a folder.
// The swap goes through a temporary name so no two entries ever share one.
func (c *Catalog) SwapOrder(a, b *Entry) error {
	if filepath.Clean(a.Dir()) != filepath.Clean(b.Dir()) {
		return ErrDifferentFolders
	}
	if a.Path == b.Path {
		return nil
	}

	tmp := b.Path + ".tmp"
	if err := os.Rename(b.Path, tmp); err != nil {
		return fmt.Errorf("swapping entries: %w", err)
	}
	if err := os.Rename(a.Path, b.Path); err != nil {
		return fmt.Errorf("swapping entries: %w", err)
	}
	if err := os.Rename(tmp, a.Path); err != nil {
		return fmt.Errorf("swapping entries: %w", err)
	}

	a.Path, b.Path = b.Path, a.Path
	a.Index, b.Index = b.Index, a.Index

	if err := c.Save(a); err != nil {
		return err
	}
	return c.Save(b)
}

// Remove deletes e. A folder's children are first moved to the folder's
// parent; they are returned with their new positions.
func (c *Catalog) Remove(e *Entry) ([]Entry, error) {
	if err := os.Remove(e.Path); err != nil {
		return nil, fmt.Errorf("removing entry: %w", err)
	}
	if !e.Is(EntryFolder) {
		return nil, nil
	}

	dir := e.FolderPath()
	children, err := c.LoadEntries(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	parent := e.Dir()
	for i := range children {
		if err := c.Move(&children[i], parent); err != nil {
			return children[:i], err
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return children, fmt.Errorf("removing folder directory: %w", err)
	}
	return children, nil
}

// FindAndRemoveApplicationEntry removes the entry of application appID from
// the tree under start. It reports whether one was found.
func (c *Catalog) FindAndRemoveApplicationEntry(appID uint64, start string) (bool, error) {
	entries, err := c.LoadEntries(start)
	if err != nil {
		return false, err
	}

	found := false
	for i := range entries {
		e := &entries[i]
		switch {
		case e.Is(EntryApplication) && e.Application.ID == appID:
			if _, err := c.Remove(e); err != nil {
				return found, err
			}
			found = true
		case e.Is(EntryFolder):
			ok, err := c.FindAndRemoveApplicationEntry(appID, e.FolderPath())
			if err != nil {
				return found, err
			}
			found = found || ok
		}
	}
	return found, nil
}

// Initialize bootstraps the catalog. A legacy layout is migrated and then
// deleted; a missing root is created and populated with the default
// shortcuts and every installed application. It is a no-op on an existing
// catalog without legacy data.
func (c *Catalog) Initialize() error {
	var idx uint32

	apps, err := c.ApplicationRecords()
	if err != nil {
		return err
	}

	if c.legacyRoot != "" && fsutil.DirExists(c.legacyRoot) {
		if err := c.migrateLegacy(&idx); err != nil {
			return fmt.Errorf("migrating legacy menu: %w", err)
		}
	}

	if !fsutil.DirExists(c.root) {
		if err := os.MkdirAll(c.root, 0755); err != nil {
			return fmt.Errorf("creating catalog root: %w", err)
		}
		return c.populate(apps, &idx)
	}
	return nil
}

// populate writes the default homebrew shortcuts, the special shortcuts and
// one entry per application to the root, starting at *idx.
func (c *Catalog) populate(apps []platform.ApplicationRecord, idx *uint32) error {
	for _, path := range c.defaultHomebrew {
		skipOccupied(c.root, idx)
		e := Entry{
			Type:     EntryHomebrew,
			Path:     EntryPath(c.root, *idx),
			Index:    *idx,
			Homebrew: HomebrewInfo{Path: path, Argv: path},
		}
		if err := c.Save(&e); err != nil {
			return err
		}
		*idx++
	}

	for _, t := range SpecialEntryTypes {
		skipOccupied(c.root, idx)
		e := Entry{Type: t, Path: EntryPath(c.root, *idx), Index: *idx}
		if err := c.Save(&e); err != nil {
			return err
		}
		*idx++
	}

	for _, rec := range apps {
		skipOccupied(c.root, idx)
		e := Entry{
			Type:        EntryApplication,
			Path:        EntryPath(c.root, *idx),
			Index:       *idx,
			Application: ApplicationInfo{ID: rec.ID, Record: rec},
		}
		if err := c.Save(&e); err != nil {
			return err
		}
		*idx++
	}
	return nil
}

// skipOccupied advances *idx past indices already taken in dir, so that
// bootstrap never overwrites a record that predates it.
func skipOccupied(dir string, idx *uint32) {
	for fsutil.Exists(EntryPath(dir, *idx)) {
		*idx++
	}
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
