package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectFlag string
	jsonFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "scriptorium",
	Short: "Window layout manager for the writer's suite",
	Long: `Scriptorium manages tool windows for a writing project: which tools
are open, where their windows sit, and named layouts that persist
across sessions.

Layout files live under <project>/window_persistence/. Commands that
need live window state (status, windows, layouts save/apply/delete)
talk to a running "scriptorium serve" instance over its unix socket;
the rest operate on the project directory directly.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", ".", "project directory")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output as JSON")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
