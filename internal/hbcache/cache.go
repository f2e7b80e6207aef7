// Package hbcache addresses the metadata cache produced for homebrew
// executables and installed applications. An external extractor fills the
// cache; the catalog only reads from it.
package hbcache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
	"github.com/battlewithbytes/homemenu/internal/platform"
)

const (
	homebrewDir    = "homebrew"
	applicationDir = "app"
)

// Cache is a metadata cache rooted at a directory.
type Cache struct {
	dir string
}

// New returns a cache rooted at dir. The directory need not exist yet.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// key derives the file stem for an executable path. Executable paths contain
// separators and arbitrary characters, so they are hashed rather than escaped.
func key(execPath string) string {
	sum := blake3.Sum256([]byte(execPath))
	return hex.EncodeToString(sum[:16])
}

// HomebrewControlPath is where the control snapshot for execPath lives.
func (c *Cache) HomebrewControlPath(execPath string) string {
	return filepath.Join(c.dir, homebrewDir, key(execPath)+".control.json")
}

// HomebrewIconPath is where the cached icon for execPath lives.
func (c *Cache) HomebrewIconPath(execPath string) string {
	return filepath.Join(c.dir, homebrewDir, key(execPath)+".jpg")
}

// ApplicationIconPath is where the cached icon for an installed application lives.
func (c *Cache) ApplicationIconPath(appID uint64) string {
	return filepath.Join(c.dir, applicationDir, fmt.Sprintf("%016X.jpg", appID))
}

// ReadControl loads the cached control snapshot for execPath. It returns
// platform.ErrNotFound when nothing has been cached for it.
func (c *Cache) ReadControl(execPath string) (*platform.ControlMetadata, error) {
	data, err := os.ReadFile(c.HomebrewControlPath(execPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, platform.ErrNotFound
		}
		return nil, fmt.Errorf("reading control cache: %w", err)
	}

	meta := &platform.ControlMetadata{PreferredLanguage: platform.NoPreferredLanguage}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, fmt.Errorf("parsing control cache for %s: %w", execPath, err)
	}
	return meta, nil
}

// WriteControl stores a control snapshot for execPath.
func (c *Cache) WriteControl(execPath string, meta *platform.ControlMetadata) error {
	path := c.HomebrewControlPath(execPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling control cache: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0644)
}
