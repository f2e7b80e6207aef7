package menu

import (
	"testing"

	"github.com/battlewithbytes/homemenu/internal/platform"
)

func TestEnrichApplication(t *testing.T) {
	reg := newFakeRegistry(0x100)
	reg.setTitle(0x100, "Game", "Studio", "1.2.0")
	env := newTestEnv(t, reg)

	e := Entry{Type: EntryApplication, Application: ApplicationInfo{ID: 0x100}}
	env.cat.control.enrich(&e)

	if e.Control.Name != "Game" || e.Control.Author != "Studio" || e.Control.Version != "1.2.0" {
		t.Errorf("Control = %+v", e.Control)
	}
	if e.Control.CustomName || e.Control.CustomAuthor || e.Control.CustomVersion {
		t.Error("derived fields should not be custom")
	}
}

func TestEnrichKeepsCustomFields(t *testing.T) {
	reg := newFakeRegistry(0x100)
	reg.setTitle(0x100, "Game", "Studio", "1.2.0")
	env := newTestEnv(t, reg)

	e := Entry{Type: EntryApplication, Application: ApplicationInfo{ID: 0x100}}
	e.Control.SetName("My Game")
	env.cat.control.enrich(&e)

	if e.Control.Name != "My Game" {
		t.Errorf("Name = %q, want custom %q", e.Control.Name, "My Game")
	}
	if e.Control.Author != "Studio" {
		t.Errorf("Author = %q, want %q", e.Control.Author, "Studio")
	}
}

func TestEnrichNoopWhenLoaded(t *testing.T) {
	reg := newFakeRegistry(0x100)
	reg.setTitle(0x100, "Game", "Studio", "1.2.0")
	env := newTestEnv(t, reg)

	e := Entry{Type: EntryApplication, Application: ApplicationInfo{ID: 0x100}}
	e.Control = ControlData{Name: "a", Author: "b", Version: "c"}
	env.cat.control.enrich(&e)

	if e.Control.Name != "a" {
		t.Errorf("enrich overwrote already-loaded data: %+v", e.Control)
	}
}

func TestEnrichHomebrewFromCache(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry())
	meta := &platform.ControlMetadata{PreferredLanguage: platform.NoPreferredLanguage, DisplayVersion: "0.3"}
	meta.Titles[2] = platform.Title{Name: "Tool", Author: "Dev"}
	if err := env.cache.WriteControl("/switch/tool.nro", meta); err != nil {
		t.Fatal(err)
	}

	e := Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/switch/tool.nro"}}
	env.cat.control.enrich(&e)

	if e.Control.Name != "Tool" || e.Control.Author != "Dev" || e.Control.Version != "0.3" {
		t.Errorf("Control = %+v", e.Control)
	}
}

func TestEnrichMissingMetadataLeavesEmpty(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry())

	e := Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/switch/none.nro"}}
	env.cat.control.enrich(&e)

	if e.Control != (ControlData{}) {
		t.Errorf("Control = %+v, want empty", e.Control)
	}
	if env.warnings() != 0 {
		t.Errorf("missing cache should not warn, got %d warnings", env.warnings())
	}
}

func TestEnrichFolderNoop(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry())
	e := Entry{Type: EntryFolder, Folder: FolderInfo{Name: "x", FSName: "folder_x_0"}}
	env.cat.control.enrich(&e)
	env.cat.control.resolveIcon(&e)
	if e.Control != (ControlData{}) {
		t.Errorf("folder control = %+v, want empty", e.Control)
	}
}

func TestResolveIcon(t *testing.T) {
	env := newTestEnv(t, newFakeRegistry())
	e := Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/switch/tool.nro"}}

	env.cat.control.resolveIcon(&e)
	if e.Control.IconPath != "" {
		t.Errorf("icon without cache file = %q, want empty", e.Control.IconPath)
	}

	icon := env.cache.HomebrewIconPath("/switch/tool.nro")
	writeFile(t, icon, "jpg")
	env.cat.control.resolveIcon(&e)
	if e.Control.IconPath != icon {
		t.Errorf("IconPath = %q, want %q", e.Control.IconPath, icon)
	}

	custom := Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/switch/tool.nro"}}
	custom.Control.SetIconPath("/mine.jpg")
	env.cat.control.resolveIcon(&custom)
	if custom.Control.IconPath != "/mine.jpg" {
		t.Errorf("custom icon replaced: %q", custom.Control.IconPath)
	}
}

func TestControlOverrides(t *testing.T) {
	var c ControlData
	c.SetName("n")
	c.SetAuthor("a")
	c.SetVersion("v")
	if !c.Loaded() {
		t.Error("expected Loaded after setting all custom fields")
	}
	c.ClearCustom()
	if c.Loaded() || c.CustomName {
		t.Errorf("ClearCustom left %+v", c)
	}
}
