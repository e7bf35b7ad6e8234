package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("prefs = %+v, want %+v", p, Default())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "siswa")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\nlist_order = \"name\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.ListOrder != OrderName {
		t.Fatalf("prefs = %+v, want Slate/name", p)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Kanagawa", ListOrder: OrderName}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Kanagawa" || loaded.ListOrder != OrderName {
		t.Fatalf("loaded = %+v", loaded)
	}
}

func TestLoad_FallsBackPerField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Prefs
	}{
		{"empty theme", "theme = \"\"\n", Default()},
		{"unknown order", "theme = \"Slate\"\nlist_order = \"random\"\n", Prefs{Theme: "Slate", ListOrder: OrderInserted}},
		{"invalid toml", "not valid toml {{{\n", Default()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Load(writePrefs(t, tt.body))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if p != tt.want {
				t.Fatalf("prefs = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestNextOrder(t *testing.T) {
	if NextOrder(OrderInserted) != OrderName || NextOrder(OrderName) != OrderInserted {
		t.Fatal("NextOrder does not toggle")
	}
	if NextOrder("") != OrderName {
		t.Fatal("NextOrder(\"\") should move to name order")
	}
}
