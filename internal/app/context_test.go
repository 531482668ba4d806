package app

import (
	"testing"
	"time"

	"github.com/inkhaven/scriptorium/internal/bridge"
	"github.com/inkhaven/scriptorium/internal/config"
	"github.com/inkhaven/scriptorium/internal/tools"
)

func TestNewWiresComponents(t *testing.T) {
	ctx, err := New(config.DefaultConfig(), t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if ctx.Registry == nil || ctx.Geometry == nil || ctx.Layouts == nil ||
		ctx.MainWindow == nil || ctx.DragDrop == nil || ctx.Bridge == nil {
		t.Fatal("context has unwired components")
	}

	// Registry honors the default limit.
	stats := ctx.Registry.Statistics()
	if stats.MaxTotalWindows != len(tools.All()) {
		t.Errorf("MaxTotalWindows = %d, want %d", stats.MaxTotalWindows, len(tools.All()))
	}
}

func TestContextEndToEnd(t *testing.T) {
	dir := t.TempDir()
	ctx, err := New(config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// Open a window through the registry, mirror it in geometry, and
	// persist via the bridge.
	id, err := ctx.Registry.OpenWindow(tools.Notes)
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	state, ok := ctx.Registry.WindowState(id)
	if !ok {
		t.Fatalf("WindowState(%d) missing", id)
	}

	ctx.Geometry.AddWindow("notes", tools.Notes.DisplayName(),
		state.X, state.Y, state.Width, state.Height)
	if err := ctx.Geometry.ShowWindow("notes"); err != nil {
		t.Fatal(err)
	}

	ctx.Layouts.CreateNewLayout("Session", nil)
	result := ctx.Bridge.HandleWindowEvent(bridge.WindowOpened{WindowID: "notes"})
	if !result.Persisted {
		t.Fatalf("event result = %+v", result)
	}
	if err := ctx.Bridge.SaveCurrentLayout(""); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}

	// A fresh context over the same project restores the layout.
	ctx2, err := New(config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx2.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if _, ok := ctx2.Layouts.WindowState("notes"); !ok {
		t.Error("window state not restored in a fresh context")
	}
}

func TestMatrixOverrideReachesDragDrop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DragDrop.CompatibilityOverrides = []config.MatrixOverride{
		{Source: "codex", Target: "hierarchy", Allowed: true},
	}
	ctx, err := New(cfg, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !ctx.DragDrop.Compatibility("codex", "hierarchy") {
		t.Error("config override did not reach the drag-drop manager")
	}
}

func TestWatchLayoutsPicksUpExternalSaves(t *testing.T) {
	dir := t.TempDir()
	ctx, err := New(config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := ctx.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	w, err := ctx.WatchLayouts()
	if err != nil {
		t.Fatalf("WatchLayouts: %v", err)
	}
	defer w.Close()

	// A second context on the same project writes a layout, as another
	// process would.
	other, err := New(config.DefaultConfig(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := other.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	other.Layouts.CreateNewLayout("Shared", nil)
	if err := other.Layouts.SaveCurrentLayout(""); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := ctx.Layouts.FindLayoutByName("Shared"); ok {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("externally saved layout never showed up in the catalog")
}
