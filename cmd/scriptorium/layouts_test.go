package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkhaven/scriptorium/internal/layout"
)

// useProject points the CLI at a throwaway project and home directory so
// tests never touch the user's real config or layouts.
func useProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	old := projectFlag
	projectFlag = dir
	t.Cleanup(func() { projectFlag = old })
	return dir
}

func seedLayout(t *testing.T, dir, name string) {
	t.Helper()
	m := layout.NewManager(layout.DefaultConfig(), dir)
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	m.CreateNewLayout(name, nil)
	if err := m.SaveCurrentLayout(""); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}
}

func TestLayoutsListEmptyProject(t *testing.T) {
	useProject(t)
	if err := runLayoutsList(layoutsListCmd, nil); err != nil {
		t.Fatalf("runLayoutsList: %v", err)
	}
}

func TestLayoutsShowUnknown(t *testing.T) {
	useProject(t)
	if err := runLayoutsShow(layoutsShowCmd, []string{"Nope"}); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestLayoutsShowSeeded(t *testing.T) {
	dir := useProject(t)
	seedLayout(t, dir, "Drafting")
	if err := runLayoutsShow(layoutsShowCmd, []string{"Drafting"}); err != nil {
		t.Fatalf("runLayoutsShow: %v", err)
	}
}

func TestLayoutsExportImport(t *testing.T) {
	dir := useProject(t)
	seedLayout(t, dir, "Portable")

	exportPath := filepath.Join(t.TempDir(), "portable.json")
	if err := runLayoutsExport(layoutsExportCmd, []string{"Portable", exportPath}); err != nil {
		t.Fatalf("runLayoutsExport: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("exported file missing: %v", err)
	}

	if err := runLayoutsImport(layoutsImportCmd, []string{exportPath}); err != nil {
		t.Fatalf("runLayoutsImport: %v", err)
	}

	m := layout.NewManager(layout.DefaultConfig(), dir)
	if err := m.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, ok := m.FindLayoutByName("Portable (Imported)"); !ok {
		t.Error("imported layout not found in catalog")
	}
}

func TestLayoutsExportUnknown(t *testing.T) {
	useProject(t)
	err := runLayoutsExport(layoutsExportCmd, []string{"Nope", filepath.Join(t.TempDir(), "x.json")})
	if err == nil {
		t.Fatal("expected error for unknown layout")
	}
}
