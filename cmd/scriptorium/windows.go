package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/inkhaven/scriptorium/internal/ipc"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List live tool windows",
	Long: `List the tool windows the running service is tracking, with their
geometry and visibility.`,
	Args: cobra.NoArgs,
	RunE: runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	client := ipc.NewClient()
	data, err := client.GetWindows()
	if err != nil {
		return fmt.Errorf("window service not reachable (is \"scriptorium serve\" running?): %w", err)
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	if len(data.Windows) == 0 {
		fmt.Println("No windows open.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tGEOMETRY\tSTATE")
	for _, w := range data.Windows {
		state := "hidden"
		switch {
		case w.IsMinimized:
			state = "minimized"
		case w.IsMaximized:
			state = "maximized"
		case w.IsVisible:
			state = "visible"
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d+%d+%d\t%s\n",
			w.ID, w.Title, w.Width, w.Height, w.X, w.Y, state)
	}
	return tw.Flush()
}
