package registry

import (
	"errors"
	"testing"

	"github.com/inkhaven/scriptorium/internal/tools"
)

func TestOpenWindow(t *testing.T) {
	r := New()

	id, err := r.OpenWindow(tools.Hierarchy)
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	if id != 1 {
		t.Errorf("first window id = %d, want 1", id)
	}
	if !r.IsToolOpen(tools.Hierarchy) {
		t.Error("IsToolOpen(Hierarchy) = false after open")
	}
	if got, ok := r.FindOpenToolWindow(tools.Hierarchy); !ok || got != id {
		t.Errorf("FindOpenToolWindow = (%d, %v), want (%d, true)", got, ok, id)
	}
	if stats := r.Statistics(); stats.OpenTools != 1 || stats.TotalOpenWindows != 1 {
		t.Errorf("stats = %+v, want 1 open tool and 1 open window", stats)
	}
}

func TestDuplicateToolRejected(t *testing.T) {
	r := New()

	first, err := r.OpenWindow(tools.Hierarchy)
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}

	_, err = r.OpenWindow(tools.Hierarchy)
	var dup *ToolAlreadyOpenError
	if !errors.As(err, &dup) {
		t.Fatalf("second OpenWindow(Hierarchy) = %v, want ToolAlreadyOpenError", err)
	}
	if dup.Tool != tools.Hierarchy || dup.ExistingWindowID != first {
		t.Errorf("error = %+v, want tool=hierarchy existing=%d", dup, first)
	}
	// The failed open must not mutate the registry.
	if stats := r.Statistics(); stats.TotalOpenWindows != 1 {
		t.Errorf("window count = %d after rejected open, want 1", stats.TotalOpenWindows)
	}
}

func TestMaxWindowsBound(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTotalWindows = 2
	r, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}

	if _, err := r.OpenWindow(tools.Hierarchy); err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	if _, err := r.OpenWindow(tools.Codex); err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}

	_, err = r.OpenWindow(tools.Analysis)
	var full *MaxWindowsError
	if !errors.As(err, &full) {
		t.Fatalf("third OpenWindow = %v, want MaxWindowsError", err)
	}
	if full.MaxWindows != 2 {
		t.Errorf("MaxWindows = %d, want 2", full.MaxWindows)
	}
	if stats := r.Statistics(); stats.TotalOpenWindows != 2 {
		t.Errorf("window count = %d after rejected open, want 2", stats.TotalOpenWindows)
	}
}

func TestZeroLimitRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTotalWindows = 0
	if _, err := NewWithConfig(cfg); err == nil {
		t.Error("NewWithConfig with zero limit succeeded, want error")
	}
}

func TestFocusExclusivity(t *testing.T) {
	r := New()

	w1, _ := r.OpenWindow(tools.Hierarchy)
	w2, _ := r.OpenWindow(tools.Codex)

	// Auto-focus puts the newest window on top.
	if s, _ := r.WindowState(w1); s.IsFocused {
		t.Error("window 1 still focused after window 2 opened")
	}
	if s, _ := r.WindowState(w2); !s.IsFocused {
		t.Error("window 2 not focused after open")
	}

	if err := r.FocusWindow(w1); err != nil {
		t.Fatalf("FocusWindow: %v", err)
	}

	focused := 0
	for _, s := range r.OpenWindows() {
		if s.IsFocused {
			focused++
			if s.WindowID != w1 {
				t.Errorf("focused window = %d, want %d", s.WindowID, w1)
			}
		}
	}
	if focused != 1 {
		t.Errorf("focused windows = %d, want exactly 1", focused)
	}

	// Redundant focus on the already-focused window is fine.
	if err := r.FocusWindow(w1); err != nil {
		t.Errorf("redundant FocusWindow: %v", err)
	}
}

func TestFocusBumpsZOrder(t *testing.T) {
	r := New()
	w1, _ := r.OpenWindow(tools.Hierarchy)
	w2, _ := r.OpenWindow(tools.Codex)

	if err := r.FocusWindow(w1); err != nil {
		t.Fatalf("FocusWindow: %v", err)
	}
	s1, _ := r.WindowState(w1)
	s2, _ := r.WindowState(w2)
	if s1.ZIndex <= s2.ZIndex {
		t.Errorf("focused window z=%d not above z=%d", s1.ZIndex, s2.ZIndex)
	}
}

func TestFocusUnknownWindow(t *testing.T) {
	r := New()
	var nf *NotFoundError
	if err := r.FocusWindow(99); !errors.As(err, &nf) {
		t.Errorf("FocusWindow(99) = %v, want NotFoundError", err)
	}
}

func TestCloseAndReopenAssignsNewID(t *testing.T) {
	r := New()

	w1, err := r.OpenWindow(tools.Hierarchy)
	if err != nil {
		t.Fatalf("OpenWindow: %v", err)
	}
	if w1 != 1 {
		t.Fatalf("first id = %d, want 1", w1)
	}

	if _, err := r.OpenWindow(tools.Hierarchy); err == nil {
		t.Fatal("duplicate open succeeded")
	}

	if err := r.CloseWindow(w1); err != nil {
		t.Fatalf("CloseWindow: %v", err)
	}
	if r.IsToolOpen(tools.Hierarchy) {
		t.Error("tool still open after close")
	}

	w2, err := r.OpenWindow(tools.Hierarchy)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if w2 != 2 {
		t.Errorf("reopened id = %d, want 2 (ids are never reused)", w2)
	}
}

func TestCloseUnknownWindow(t *testing.T) {
	r := New()
	var nf *NotFoundError
	if err := r.CloseWindow(42); !errors.As(err, &nf) {
		t.Errorf("CloseWindow(42) = %v, want NotFoundError", err)
	}
}

func TestCascadePlacement(t *testing.T) {
	r := New()
	w1, _ := r.OpenWindow(tools.Hierarchy)
	w2, _ := r.OpenWindow(tools.Codex)
	w3, _ := r.OpenWindow(tools.Plot)

	s1, _ := r.WindowState(w1)
	s2, _ := r.WindowState(w2)
	s3, _ := r.WindowState(w3)

	if s1.X != 100 || s1.Y != 100 {
		t.Errorf("first window at (%d,%d), want (100,100)", s1.X, s1.Y)
	}
	if s2.X != 130 || s2.Y != 130 {
		t.Errorf("second window at (%d,%d), want (130,130)", s2.X, s2.Y)
	}
	if s3.X != 160 || s3.Y != 160 {
		t.Errorf("third window at (%d,%d), want (160,160)", s3.X, s3.Y)
	}
}

func TestUniquenessAcrossSequence(t *testing.T) {
	r := New()
	for _, tool := range tools.All() {
		if _, err := r.OpenWindow(tool); err != nil {
			t.Fatalf("OpenWindow(%s): %v", tool, err)
		}
	}

	seen := map[tools.ToolType]bool{}
	for _, s := range r.OpenWindows() {
		if seen[s.Tool] {
			t.Errorf("tool %s open twice", s.Tool)
		}
		seen[s.Tool] = true
	}
	if stats := r.Statistics(); stats.AvailableTools != 0 {
		t.Errorf("AvailableTools = %d with all tools open, want 0", stats.AvailableTools)
	}
}
