package bridge

import (
	"path/filepath"
	"testing"

	"github.com/inkhaven/scriptorium/internal/geometry"
	"github.com/inkhaven/scriptorium/internal/layout"
)

func newTestBridge(t *testing.T) (*Bridge, *geometry.Store, *layout.Manager) {
	t.Helper()
	geo := geometry.NewStore()
	layouts := layout.NewManager(layout.DefaultConfig(), t.TempDir())
	b := New(DefaultIntegrationConfig(), geo, layouts)
	if err := b.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	layouts.CreateNewLayout("Session", nil)
	return b, geo, layouts
}

func TestHandleEventBeforeInitialize(t *testing.T) {
	b := New(DefaultIntegrationConfig(), geometry.NewStore(),
		layout.NewManager(layout.DefaultConfig(), t.TempDir()))

	result := b.HandleWindowEvent(WindowOpened{WindowID: "notes"})
	if result.Success || result.Persisted {
		t.Errorf("event accepted before initialization: %+v", result)
	}
}

func TestWindowOpenedPersistsGeometry(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("notes", "Research Notes", 120, 140, 500, 400)
	if err := geo.ShowWindow("notes"); err != nil {
		t.Fatal(err)
	}

	result := b.HandleWindowEvent(WindowOpened{WindowID: "notes"})
	if !result.Success || !result.Persisted {
		t.Fatalf("result = %+v", result)
	}
	if result.Stats == nil || result.Stats.TotalWindowsInCurrent != 1 {
		t.Errorf("stats = %+v", result.Stats)
	}

	state, ok := layouts.WindowState("notes")
	if !ok {
		t.Fatal("window state not tracked")
	}
	if state.Position.X != 120 || state.Position.Y != 140 {
		t.Errorf("position = %+v", state.Position)
	}
	if state.Size.Width != 500 || state.Size.Height != 400 {
		t.Errorf("size = %+v", state.Size)
	}
	if !state.Visibility.IsVisible {
		t.Error("opened window persisted as hidden")
	}
	if state.Metadata.OpenCount != 1 {
		t.Errorf("open count = %d, want 1", state.Metadata.OpenCount)
	}
}

func TestWindowOpenedWithoutGeometryFails(t *testing.T) {
	b, _, _ := newTestBridge(t)
	result := b.HandleWindowEvent(WindowOpened{WindowID: "ghost"})
	if result.Success {
		t.Error("event succeeded for a window with no geometry")
	}
	if result.Message == "" {
		t.Error("failure carried no message")
	}
}

func TestMoveResizeCloseEvents(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("plot", "Plot Development", 100, 100, 600, 450)
	if err := geo.ShowWindow("plot"); err != nil {
		t.Fatal(err)
	}
	b.HandleWindowEvent(WindowOpened{WindowID: "plot"})

	b.HandleWindowEvent(WindowMoved{WindowID: "plot", X: 300, Y: 200})
	state, _ := layouts.WindowState("plot")
	if state.Position.X != 300 || state.Position.Y != 200 {
		t.Errorf("position after move = %+v", state.Position)
	}

	b.HandleWindowEvent(WindowResized{WindowID: "plot", Width: 700, Height: 500})
	state, _ = layouts.WindowState("plot")
	if state.Size.Width != 700 || state.Size.Height != 500 {
		t.Errorf("size after resize = %+v", state.Size)
	}

	b.HandleWindowEvent(WindowClosed{WindowID: "plot"})
	state, _ = layouts.WindowState("plot")
	if state.Visibility.IsVisible {
		t.Error("closed window persisted as visible")
	}
	// The entry survives the close.
	if _, ok := layouts.WindowState("plot"); !ok {
		t.Error("close removed the persisted state")
	}
}

func TestMinimizeEventReadsGeometry(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("codex", "World Building Codex", 100, 100, 600, 450)
	if err := geo.ShowWindow("codex"); err != nil {
		t.Fatal(err)
	}
	b.HandleWindowEvent(WindowOpened{WindowID: "codex"})

	if err := geo.MinimizeWindow("codex"); err != nil {
		t.Fatal(err)
	}
	result := b.HandleWindowEvent(WindowMinimized{WindowID: "codex"})
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	state, _ := layouts.WindowState("codex")
	if !state.Visibility.IsMinimized {
		t.Error("minimize not persisted")
	}
}

func TestAllWindowsClosed(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	for _, id := range []string{"notes", "plot", "codex"} {
		geo.AddWindow(id, id, 100, 100, 400, 300)
		if err := geo.ShowWindow(id); err != nil {
			t.Fatal(err)
		}
		b.HandleWindowEvent(WindowOpened{WindowID: id})
	}

	result := b.HandleWindowEvent(AllWindowsClosed{})
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	for _, id := range []string{"notes", "plot", "codex"} {
		state, ok := layouts.WindowState(id)
		if !ok {
			t.Fatalf("window %q lost its state", id)
		}
		if state.Visibility.IsVisible {
			t.Errorf("window %q still visible after AllWindowsClosed", id)
		}
	}
}

func TestLayoutChangedSavesUnderName(t *testing.T) {
	b, _, layouts := newTestBridge(t)

	result := b.HandleWindowEvent(LayoutChanged{LayoutName: "Evening"})
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if _, ok := layouts.FindLayoutByName("Evening"); !ok {
		t.Error("layout not saved under the new name")
	}
}

func TestSyncWindowStates(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("analysis", "Writing Analysis", 10, 20, 640, 480)
	geo.AddWindow("notes", "Research Notes", 40, 60, 400, 300)

	b.SyncWindowStates()

	for _, id := range []string{"analysis", "notes"} {
		if _, ok := layouts.WindowState(id); !ok {
			t.Errorf("window %q not synced", id)
		}
	}
	state, _ := layouts.WindowState("analysis")
	if state.Position.X != 10 || state.Size.Width != 640 {
		t.Errorf("synced state = %+v", state)
	}
}

func TestLoadLayoutAppliesGeometry(t *testing.T) {
	b, geo, _ := newTestBridge(t)
	geo.AddWindow("notes", "Research Notes", 100, 100, 400, 300)
	if err := geo.ShowWindow("notes"); err != nil {
		t.Fatal(err)
	}
	b.HandleWindowEvent(WindowOpened{WindowID: "notes"})
	b.HandleWindowEvent(WindowMoved{WindowID: "notes", X: 250, Y: 260})
	if err := b.SaveCurrentLayout("Reading"); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}

	// Drift the live geometry, then load the saved layout back.
	if err := geo.UpdateWindowBounds("notes", 0, 0, 800, 600); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadLayout("Reading"); err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}

	x, y, w, h, ok := geo.WindowBounds("notes")
	if !ok {
		t.Fatal("window lost")
	}
	if x != 250 || y != 260 || w != 400 || h != 300 {
		t.Errorf("geometry after load = (%d,%d,%d,%d)", x, y, w, h)
	}
}

func TestLoadUnknownLayoutName(t *testing.T) {
	b, _, _ := newTestBridge(t)
	if err := b.LoadLayout("Nonexistent"); err == nil {
		t.Error("LoadLayout accepted unknown name")
	}
}

func TestDeleteAndExportForwarding(t *testing.T) {
	b, _, _ := newTestBridge(t)
	if err := b.SaveCurrentLayout("Keep"); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}

	path := filepath.Join(t.TempDir(), "keep.json")
	if err := b.ExportLayout("Keep", path); err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	name, err := b.ImportLayout(path)
	if err != nil {
		t.Fatalf("ImportLayout: %v", err)
	}
	if name != "Keep (Imported)" {
		t.Errorf("imported name = %q", name)
	}

	if err := b.DeleteLayout("Keep"); err != nil {
		t.Fatalf("DeleteLayout: %v", err)
	}
	if err := b.DeleteLayout("Keep"); err == nil {
		t.Error("deleting unknown name succeeded")
	}

	names := b.AvailableLayouts()
	found := false
	for _, n := range names {
		if n == "Keep (Imported)" {
			found = true
		}
	}
	if !found {
		t.Errorf("AvailableLayouts = %v", names)
	}
}

func TestLoadLayoutRestoresStackingOrder(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("notes", "Research Notes", 100, 100, 400, 300)
	if err := geo.ShowWindow("notes"); err != nil {
		t.Fatal(err)
	}

	// Persist the window with a raised z-index, as a stacked session
	// would have left it.
	state, ok := layouts.WindowState("notes")
	if !ok {
		state = layout.NewWindowState("notes", "Research Notes", layout.TypeForWindowID("notes"))
	}
	state.ZIndex = 5
	layouts.UpdateWindowState("notes", state)
	if err := b.SaveCurrentLayout("Stacked"); err != nil {
		t.Fatalf("SaveCurrentLayout: %v", err)
	}

	// Flatten the live window, then load the saved layout back.
	if err := geo.ApplyState("notes", 100, 100, 400, 300, 0, true, false, false); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadLayout("Stacked"); err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}

	window, ok := geo.Window("notes")
	if !ok {
		t.Fatal("window missing from geometry store")
	}
	if window.ZIndex != 5 {
		t.Errorf("ZIndex = %d after layout load, want 5", window.ZIndex)
	}
}

func TestWindowOpenedPersistsZIndex(t *testing.T) {
	b, geo, layouts := newTestBridge(t)
	geo.AddWindow("plot", "Plot Development", 100, 100, 400, 300)
	geo.AddWindow("notes", "Research Notes", 130, 130, 400, 300)
	// Showing raises the window, so notes then plot leaves plot on top.
	if err := geo.ShowWindow("notes"); err != nil {
		t.Fatal(err)
	}
	if err := geo.ShowWindow("plot"); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"notes", "plot"} {
		if result := b.HandleWindowEvent(WindowOpened{WindowID: id}); !result.Persisted {
			t.Fatalf("WindowOpened(%s) = %+v", id, result)
		}
	}

	notesWin, _ := geo.Window("notes")
	plotWin, _ := geo.Window("plot")
	notesState, _ := layouts.WindowState("notes")
	plotState, _ := layouts.WindowState("plot")
	if notesState.ZIndex != notesWin.ZIndex || plotState.ZIndex != plotWin.ZIndex {
		t.Errorf("persisted z (%d, %d), live z (%d, %d)",
			notesState.ZIndex, plotState.ZIndex, notesWin.ZIndex, plotWin.ZIndex)
	}
	if plotState.ZIndex <= notesState.ZIndex {
		t.Errorf("stacking order lost: plot z %d, notes z %d", plotState.ZIndex, notesState.ZIndex)
	}
}
