package menu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/battlewithbytes/homemenu/internal/hbcache"
	"github.com/battlewithbytes/homemenu/internal/platform"
)

type fakeRegistry struct {
	apps      []platform.ApplicationRecord
	control   map[uint64]*platform.ControlMetadata
	status    map[uint64]platform.MetaStatus
	listCalls int
}

func newFakeRegistry(ids ...uint64) *fakeRegistry {
	r := &fakeRegistry{
		control: make(map[uint64]*platform.ControlMetadata),
		status:  make(map[uint64]platform.MetaStatus),
	}
	for _, id := range ids {
		r.apps = append(r.apps, platform.ApplicationRecord{ID: id, Type: 1})
		r.status[id] = platform.MetaStatus{MetaType: 0x80}
	}
	return r
}

func (r *fakeRegistry) ListApplicationRecords() ([]platform.ApplicationRecord, error) {
	r.listCalls++
	return append([]platform.ApplicationRecord(nil), r.apps...), nil
}

func (r *fakeRegistry) GetApplicationMetaStatus(appID uint64) (platform.MetaStatus, error) {
	st, ok := r.status[appID]
	if !ok {
		return st, platform.ErrNotFound
	}
	return st, nil
}

func (r *fakeRegistry) GetApplicationControlMetadata(appID uint64) (*platform.ControlMetadata, error) {
	m, ok := r.control[appID]
	if !ok {
		return nil, platform.ErrNotFound
	}
	return m, nil
}

func (r *fakeRegistry) setTitle(appID uint64, name, author, version string) {
	m := &platform.ControlMetadata{PreferredLanguage: platform.NoPreferredLanguage, DisplayVersion: version}
	m.Titles[0] = platform.Title{Name: name, Author: author}
	r.control[appID] = m
}

type testEnv struct {
	cat    *Catalog
	reg    *fakeRegistry
	cache  *hbcache.Cache
	root   string
	legacy string
	hook   *logtest.Hook
}

func newTestEnv(t *testing.T, reg *fakeRegistry) *testEnv {
	t.Helper()
	base := t.TempDir()
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	env := &testEnv{
		reg:    reg,
		cache:  hbcache.New(filepath.Join(base, "cache")),
		root:   filepath.Join(base, "menu"),
		legacy: filepath.Join(base, "legacy"),
		hook:   hook,
	}
	cat, err := New(Options{
		Root:            env.root,
		LegacyRoot:      env.legacy,
		DefaultHomebrew: []string{"/hbmenu.nro", "/switch/manager.nro"},
		Registry:        reg,
		Cache:           env.cache,
		Logger:          logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	env.cat = cat
	return env
}

// newEmptyRoot creates the catalog root without bootstrap entries.
func (env *testEnv) newEmptyRoot(t *testing.T) {
	t.Helper()
	if err := os.MkdirAll(env.root, 0755); err != nil {
		t.Fatal(err)
	}
}

func (env *testEnv) warnings() int {
	n := 0
	for _, e := range env.hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			n++
		}
	}
	return n
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func mustLoad(t *testing.T, cat *Catalog, dir string) []Entry {
	t.Helper()
	entries, err := cat.LoadEntries(dir)
	if err != nil {
		t.Fatalf("LoadEntries(%s): %v", dir, err)
	}
	return entries
}

func indices(entries []Entry) []uint32 {
	out := make([]uint32, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	return out
}

func equalIndices(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// checkConsistent asserts sibling index uniqueness and path/index agreement.
func checkConsistent(t *testing.T, dir string, entries []Entry) {
	t.Helper()
	seen := make(map[uint32]bool)
	for _, e := range entries {
		if seen[e.Index] {
			t.Errorf("index %d appears twice in %s", e.Index, dir)
		}
		seen[e.Index] = true
		if want := EntryPath(dir, e.Index); e.Path != want {
			t.Errorf("entry path = %q, want %q", e.Path, want)
		}
	}
}
