package menu

import (
	"path/filepath"
	"testing"

	"github.com/battlewithbytes/homemenu/internal/fsutil"
)

func TestParseApplicationID(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0x100", 0x100, true},
		{"0100000000010000", 0x0100000000010000, true},
		{"0X00000000000002A0", 0x2A0, true},
		{"", 0, false},
		{"0xZZ", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseApplicationID(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseApplicationID(%q) = %x, %v; want %x, ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestLegacyControlRule(t *testing.T) {
	r := legacyRecord{Name: "N", Version: "2"}
	c := r.control()
	if !c.CustomName || !c.CustomAuthor || !c.CustomVersion || !c.CustomIconPath {
		t.Errorf("a legacy name must flag every field custom: %+v", c)
	}

	r = legacyRecord{Author: "only author"}
	c = r.control()
	if c.CustomAuthor || c.CustomName {
		t.Errorf("without a legacy name nothing is custom: %+v", c)
	}
}

func TestMigrationReconcilesWithRegistry(t *testing.T) {
	reg := newFakeRegistry(0x100, 0x200)
	reg.setTitle(0x100, "Game", "Studio", "1.0")
	reg.setTitle(0x200, "Other", "Studio", "2.0")
	env := newTestEnv(t, reg)

	writeFile(t, filepath.Join(env.legacy, "a.json"),
		`{"type": 1, "application_id": "0x100", "name": "My Game", "author": "Me"}`)
	writeFile(t, filepath.Join(env.legacy, "b.json"),
		`{"type": 1, "application_id": "0x300", "name": "Gone"}`)

	if err := env.cat.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if fsutil.Exists(env.legacy) {
		t.Error("legacy root not deleted")
	}

	entries := mustLoad(t, env.cat, env.root)
	checkConsistent(t, env.root, entries)

	apps := make(map[uint64]Entry)
	for _, e := range entries {
		if e.Is(EntryApplication) {
			if _, dup := apps[e.Application.ID]; dup {
				t.Errorf("application %x listed twice", e.Application.ID)
			}
			apps[e.Application.ID] = e
		}
	}
	if len(apps) != 2 {
		t.Fatalf("got %d applications, want 2: %+v", len(apps), apps)
	}

	migrated, ok := apps[0x100]
	if !ok {
		t.Fatal("application 0x100 not migrated")
	}
	if migrated.Control.Name != "My Game" || migrated.Control.Author != "Me" {
		t.Errorf("legacy overrides lost: %+v", migrated.Control)
	}
	if !migrated.Control.CustomVersion || migrated.Control.Version != "" {
		t.Errorf("legacy rule should keep the empty version as custom: %+v", migrated.Control)
	}

	appended, ok := apps[0x200]
	if !ok {
		t.Fatal("application 0x200 not appended")
	}
	if appended.Control.Name != "Other" || appended.Control.CustomName {
		t.Errorf("appended application control = %+v", appended.Control)
	}
	if _, ok := apps[0x300]; ok {
		t.Error("uninstalled application 0x300 was migrated")
	}

	// 2 legacy records consumed indices 0 and 1; bootstrap continues from 2
	if migrated.Index != 0 {
		t.Errorf("migrated index = %d, want 0", migrated.Index)
	}
	if got := len(entries); got != 1+2+len(SpecialEntryTypes)+1 {
		t.Errorf("got %d entries, want %d", got, 1+2+len(SpecialEntryTypes)+1)
	}
	if entries[1].Index != 2 || !entries[1].Is(EntryHomebrew) {
		t.Errorf("bootstrap should start at index 2, got %+v", entries[1])
	}
}

func TestMigrationHomebrewAndFolders(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry())
	exe := filepath.Join(t.TempDir(), "tool.nro")
	writeFile(t, exe, "nro")

	writeFile(t, filepath.Join(env.legacy, "0.json"),
		`{"type": 2, "nro_path": "`+exe+`", "nro_argv": "`+exe+` -v", "folder": "Tools"}`)
	writeFile(t, filepath.Join(env.legacy, "1.json"),
		`{"type": 2, "nro_path": "/missing.nro", "folder": "Tools"}`)
	writeFile(t, filepath.Join(env.legacy, "2.json"),
		`{"type": 2, "nro_path": "`+exe+`", "nro_argv": "", "folder": "Tools"}`)
	writeFile(t, filepath.Join(env.legacy, "3.json"), `{broken`)

	if err := env.cat.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	root := mustLoad(t, env.cat, env.root)
	var folders []Entry
	for _, e := range root {
		if e.Is(EntryFolder) {
			folders = append(folders, e)
		}
	}
	if len(folders) != 1 || folders[0].Folder.Name != "Tools" {
		t.Fatalf("folders = %+v, want a single Tools folder", folders)
	}

	inside := mustLoad(t, env.cat, folders[0].FolderPath())
	if len(inside) != 2 {
		t.Fatalf("Tools holds %d entries, want 2", len(inside))
	}
	if inside[0].Homebrew.Argv != exe+" -v" {
		t.Errorf("Argv = %q", inside[0].Homebrew.Argv)
	}
	checkConsistent(t, folders[0].FolderPath(), inside)
	if env.warnings() < 2 {
		t.Errorf("expected warnings for the missing executable and broken record, got %d", env.warnings())
	}
}

func TestMigrationReusesExistingRootFolder(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry(0x100))
	env.newEmptyRoot(t)
	existing, err := env.cat.CreateFolder(env.root, "Games", 0)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(env.legacy, "a.json"),
		`{"type": 1, "application_id": "100", "folder": "Games"}`)

	if err := env.cat.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	inside := mustLoad(t, env.cat, existing.FolderPath())
	if len(inside) != 1 || inside[0].Application.ID != 0x100 {
		t.Errorf("existing folder entries = %+v", inside)
	}
}
