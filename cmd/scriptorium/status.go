package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/inkhaven/scriptorium/internal/ipc"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"stats"},
	Short:   "Show the running window service's state",
	Long: `Show layout and window counts from a running window service.

Examples:
  # Human-readable status
  scriptorium status

  # Output as JSON
  scriptorium status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := ipc.NewClient()
	stats, err := client.GetStats()
	if err != nil {
		return fmt.Errorf("window service not reachable (is \"scriptorium serve\" running?): %w", err)
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	current := stats.CurrentLayoutName
	if current == "" {
		current = "(none)"
	}
	fmt.Printf("Current layout:  %s\n", current)
	fmt.Printf("Saved layouts:   %d\n", stats.TotalSavedLayouts)
	fmt.Printf("Tracked windows: %d\n", stats.TotalWindowsInCurrent)
	fmt.Printf("Open windows:    %d (%d visible)\n", stats.OpenWindows, stats.VisibleWindows)
	fmt.Printf("Auto-save:       %v\n", stats.AutoSaveEnabled)
	fmt.Printf("Uptime:          %s\n", (time.Duration(stats.UptimeSeconds) * time.Second).String())
	return nil
}
