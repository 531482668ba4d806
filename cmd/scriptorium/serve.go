package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/inkhaven/scriptorium/internal/app"
	"github.com/inkhaven/scriptorium/internal/ipc"
	"github.com/inkhaven/scriptorium/internal/runtimepath"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the window service for a project",
	Long: `Run the window service in the foreground.

The service owns the project's window state and answers CLI queries
on a unix socket. It also watches the layouts directory so layouts
saved by another process show up without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, err := app.Load(projectFlag)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}
	if err := ctx.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize window state: %w", err)
	}

	w, err := ctx.WatchLayouts()
	if err != nil {
		return fmt.Errorf("failed to watch layouts directory: %w", err)
	}
	defer w.Close()

	server, err := ipc.NewServer(ctx)
	if err != nil {
		return err
	}
	if err := server.Start(); err != nil {
		return err
	}
	defer server.Stop()

	socketPath, _ := runtimepath.SocketPath()
	log.Printf("serve: window service ready for %s (socket %s)", projectFlag, socketPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("serve: received %s, shutting down", sig)

	// Persist live state before exit so a restart picks up where the
	// writer left off.
	if _, ok := ctx.Layouts.CurrentLayout(); ok {
		if err := ctx.Bridge.SaveCurrentLayout(""); err != nil {
			log.Printf("serve: failed to save layout on shutdown: %v", err)
		}
	}
	return nil
}
