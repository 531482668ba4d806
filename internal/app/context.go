// Package app wires the window subsystems together for one project.
// Components never reach for globals; everything hangs off the
// ApplicationContext handed to them.
package app

import (
	"fmt"
	"log"

	"github.com/inkhaven/scriptorium/internal/bridge"
	"github.com/inkhaven/scriptorium/internal/config"
	"github.com/inkhaven/scriptorium/internal/dragdrop"
	"github.com/inkhaven/scriptorium/internal/geometry"
	"github.com/inkhaven/scriptorium/internal/layout"
	"github.com/inkhaven/scriptorium/internal/registry"
	"github.com/inkhaven/scriptorium/internal/watcher"
)

// Context owns one project's window state: identity registry, live
// geometry, layout persistence, main-window persistence, drag and
// drop, and the bridge tying them together.
type Context struct {
	ProjectPath string

	Config     *config.Config
	Registry   *registry.Registry
	Geometry   *geometry.Store
	Layouts    *layout.Manager
	MainWindow *layout.MainWindowManager
	DragDrop   *dragdrop.Manager
	Bridge     *bridge.Bridge
}

// New builds a context from an already-loaded config. Call Initialize
// before use.
func New(cfg *config.Config, projectPath string) (*Context, error) {
	reg, err := registry.NewWithConfig(cfg.RegistryConfig())
	if err != nil {
		return nil, err
	}

	geo := geometry.NewStore()
	layouts := layout.NewManager(cfg.LayoutConfig(), projectPath)

	dd := dragdrop.NewManager()
	dd.SetMatrix(cfg.Matrix())

	return &Context{
		ProjectPath: projectPath,
		Config:      cfg,
		Registry:    reg,
		Geometry:    geo,
		Layouts:     layouts,
		MainWindow:  layout.NewMainWindowManager(cfg.MainWindowConfig(), projectPath),
		DragDrop:    dd,
		Bridge:      bridge.New(bridge.DefaultIntegrationConfig(), geo, layouts),
	}, nil
}

// Load reads the standard config location and builds a context for
// projectPath.
func Load(projectPath string) (*Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return New(cfg, projectPath)
}

// Initialize prepares persistence: layout restore via the bridge, then
// the main window's saved state.
func (c *Context) Initialize() error {
	if err := c.Bridge.Initialize(); err != nil {
		return err
	}
	if _, err := c.MainWindow.Load(); err != nil {
		return fmt.Errorf("failed to load main window state: %w", err)
	}
	return nil
}

// WatchLayouts starts watching the saved-layouts directory so layouts
// written by another process show up without a restart. The caller owns
// the returned watcher and must Close it on shutdown.
func (c *Context) WatchLayouts() (*watcher.Watcher, error) {
	return watcher.New(c.Layouts.LayoutsDir(), func(paths []string) {
		if err := c.Layouts.ReloadSavedLayouts(); err != nil {
			log.Printf("app: failed to reload saved layouts: %v", err)
			return
		}
		log.Printf("app: reloaded saved layouts after %d file change(s)", len(paths))
	}, watcher.WithErrorHandler(func(err error) {
		log.Printf("app: layout watcher error: %v", err)
	}))
}
