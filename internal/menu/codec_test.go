package menu

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{"application", Entry{Type: EntryApplication, Application: ApplicationInfo{ID: 0x0100000000010000}}},
		{"homebrew", Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/switch/tool.nro", Argv: "/switch/tool.nro --fast"}}},
		{"folder", Entry{Type: EntryFolder, Folder: FolderInfo{Name: "Jeux", FSName: "folder_Jeux_0"}}},
		{"special", Entry{Type: EntryAlbum}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.entry.Control.SetName("Custom")
			tt.entry.Control.SetIconPath("/icons/custom.jpg")
			tt.entry.Control.Author = "derived author"
			tt.entry.Control.Version = "9.9"

			data, err := EncodeRecord(&tt.entry)
			if err != nil {
				t.Fatalf("EncodeRecord: %v", err)
			}
			got, err := DecodeRecord(data)
			if err != nil {
				t.Fatalf("DecodeRecord: %v", err)
			}

			if got.Type != tt.entry.Type {
				t.Errorf("Type = %v, want %v", got.Type, tt.entry.Type)
			}
			if got.Application.ID != tt.entry.Application.ID {
				t.Errorf("Application.ID = %x, want %x", got.Application.ID, tt.entry.Application.ID)
			}
			if got.Homebrew != tt.entry.Homebrew {
				t.Errorf("Homebrew = %+v, want %+v", got.Homebrew, tt.entry.Homebrew)
			}
			if got.Folder != tt.entry.Folder {
				t.Errorf("Folder = %+v, want %+v", got.Folder, tt.entry.Folder)
			}
			if !got.Control.CustomName || got.Control.Name != "Custom" {
				t.Errorf("custom name lost: %+v", got.Control)
			}
			if !got.Control.CustomIconPath || got.Control.IconPath != "/icons/custom.jpg" {
				t.Errorf("custom icon lost: %+v", got.Control)
			}
			if got.Control.CustomAuthor || got.Control.Author != "" {
				t.Errorf("derived author persisted: %+v", got.Control)
			}
			if got.Control.CustomVersion || got.Control.Version != "" {
				t.Errorf("derived version persisted: %+v", got.Control)
			}
		})
	}
}

func TestEncodeOmitsDerivedFields(t *testing.T) {
	e := Entry{Type: EntryApplication, Application: ApplicationInfo{ID: 0x100}}
	e.Control.Name = "Derived"
	e.Control.IconPath = "/cache/app/0000000000000100.jpg"

	data, err := EncodeRecord(&e)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"custom_name", "custom_author", "custom_version", "custom_icon_path", "nro_path", "name"} {
		if _, ok := doc[k]; ok {
			t.Errorf("unexpected key %q in %s", k, data)
		}
	}
	if doc["type"] != float64(EntryApplication) {
		t.Errorf("type = %v, want %d", doc["type"], EntryApplication)
	}
}

func TestEncodeInvalidFails(t *testing.T) {
	if _, err := EncodeRecord(&Entry{}); err == nil {
		t.Error("expected error encoding an invalid entry")
	}
}

func TestCustomEmptyStringSurvives(t *testing.T) {
	e := Entry{Type: EntryHomebrew, Homebrew: HomebrewInfo{Path: "/a.nro"}}
	e.Control.SetAuthor("")

	data, _ := EncodeRecord(&e)
	got, err := DecodeRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Control.CustomAuthor {
		t.Error("empty custom author should stay custom")
	}
	if got.Control.CustomName {
		t.Error("name should not become custom")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	for _, doc := range []string{`{}`, `{"type": 0}`, `{"type": 99, "name": "x"}`} {
		e, err := DecodeRecord([]byte(doc))
		if err != nil {
			t.Errorf("DecodeRecord(%s): %v", doc, err)
		}
		if e.Type != EntryInvalid {
			t.Errorf("DecodeRecord(%s).Type = %v, want invalid", doc, e.Type)
		}
	}
}

func TestDecodeFolderRequiresNames(t *testing.T) {
	for _, doc := range []string{
		`{"type": 3, "fs_name": "folder_x_0"}`,
		`{"type": 3, "name": "x"}`,
	} {
		if _, err := DecodeRecord([]byte(doc)); !errors.Is(err, ErrInvalidFolder) {
			t.Errorf("DecodeRecord(%s): err = %v, want ErrInvalidFolder", doc, err)
		}
	}
}

func TestDecodeToleratesComments(t *testing.T) {
	doc := `{
		// written by hand
		"type": 2,
		"nro_path": "/switch/a.nro",
		"nro_argv": "",
	}`
	e, err := DecodeRecord([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeRecord: %v", err)
	}
	if e.Type != EntryHomebrew || e.Homebrew.Path != "/switch/a.nro" {
		t.Errorf("decoded %+v", e)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := DecodeRecord([]byte(`{"type": "folder"`)); err == nil {
		t.Error("expected error for malformed document")
	}
}
