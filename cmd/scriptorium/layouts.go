package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/inkhaven/scriptorium/internal/config"
	"github.com/inkhaven/scriptorium/internal/ipc"
	"github.com/inkhaven/scriptorium/internal/layout"
	"github.com/spf13/cobra"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Manage saved window layouts",
	Long: `Manage the named window layouts saved for a project.

list, show, export, and import read the project directory directly.
save, apply, and delete change live window state and need a running
"scriptorium serve" instance.`,
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved layouts, most recently used first",
	Args:  cobra.NoArgs,
	RunE:  runLayoutsList,
}

var layoutsShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the windows saved in a layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsShow,
}

var layoutsSaveCmd = &cobra.Command{
	Use:   "save [NAME]",
	Short: "Save the live window state as a layout",
	Long: `Save the running service's window state.

Without a name, the current layout is saved in place. With a name, the
current state is saved as a new layout under that name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLayoutsSave,
}

var layoutsApplyCmd = &cobra.Command{
	Use:   "apply NAME",
	Short: "Apply a saved layout to the live windows",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsApply,
}

var layoutsDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsDelete,
}

var layoutsExportCmd = &cobra.Command{
	Use:   "export NAME FILE",
	Short: "Export a saved layout to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runLayoutsExport,
}

var layoutsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a layout file into the project",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsImport,
}

func init() {
	layoutsCmd.AddCommand(layoutsListCmd)
	layoutsCmd.AddCommand(layoutsShowCmd)
	layoutsCmd.AddCommand(layoutsSaveCmd)
	layoutsCmd.AddCommand(layoutsApplyCmd)
	layoutsCmd.AddCommand(layoutsDeleteCmd)
	layoutsCmd.AddCommand(layoutsExportCmd)
	layoutsCmd.AddCommand(layoutsImportCmd)
	rootCmd.AddCommand(layoutsCmd)
}

// openLayoutManager reads a project's saved layouts without touching
// live state or usage counters.
func openLayoutManager() (*layout.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lcfg := cfg.LayoutConfig()
	lcfg.RestoreOnStartup = false
	lcfg.AutoSaveOnChange = false

	m := layout.NewManager(lcfg, projectFlag)
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return m, nil
}

func runLayoutsList(cmd *cobra.Command, args []string) error {
	m, err := openLayoutManager()
	if err != nil {
		return err
	}
	saved := m.SavedLayouts()

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(saved)
	}

	if len(saved) == 0 {
		fmt.Println("No saved layouts.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWINDOWS\tLAST USED\tUSES")
	for _, l := range saved {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\n",
			l.Name, len(l.Windows), l.LastUsed.Format("2006-01-02 15:04"), l.UsageCount)
	}
	return tw.Flush()
}

func runLayoutsShow(cmd *cobra.Command, args []string) error {
	m, err := openLayoutManager()
	if err != nil {
		return err
	}

	id, ok := m.FindLayoutByName(args[0])
	if !ok {
		return fmt.Errorf("layout %q not found", args[0])
	}
	var found layout.Layout
	for _, l := range m.SavedLayouts() {
		if l.ID == id {
			found = l
			break
		}
	}

	if jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	fmt.Printf("Layout: %s (%s)\n", found.Name, found.ID)
	if found.Description != nil {
		fmt.Printf("Description: %s\n", *found.Description)
	}
	fmt.Printf("Created: %s  Last used: %s  Uses: %d\n\n",
		found.CreatedAt.Format("2006-01-02 15:04"),
		found.LastUsed.Format("2006-01-02 15:04"),
		found.UsageCount)

	if len(found.Windows) == 0 {
		fmt.Println("No windows in this layout.")
		return nil
	}

	ids := make([]string, 0, len(found.Windows))
	for wid := range found.Windows {
		ids = append(ids, wid)
	}
	sort.Strings(ids)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WINDOW\tTITLE\tGEOMETRY\tVISIBLE")
	for _, wid := range ids {
		w := found.Windows[wid]
		fmt.Fprintf(tw, "%s\t%s\t%dx%d+%d+%d\t%v\n",
			w.ID, w.Title, w.Size.Width, w.Size.Height,
			w.Position.X, w.Position.Y, w.Visibility.IsVisible)
	}
	return tw.Flush()
}

func runLayoutsSave(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	client := ipc.NewClient()
	if err := client.SaveLayout(name); err != nil {
		return fmt.Errorf("window service not reachable (is \"scriptorium serve\" running?): %w", err)
	}
	if name == "" {
		fmt.Println("Saved current layout.")
	} else {
		fmt.Printf("Saved layout %q.\n", name)
	}
	return nil
}

func runLayoutsApply(cmd *cobra.Command, args []string) error {
	client := ipc.NewClient()
	if err := client.ApplyLayout(args[0]); err != nil {
		return err
	}
	fmt.Printf("Applied layout %q.\n", args[0])
	return nil
}

func runLayoutsDelete(cmd *cobra.Command, args []string) error {
	client := ipc.NewClient()
	if err := client.DeleteLayout(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted layout %q.\n", args[0])
	return nil
}

func runLayoutsExport(cmd *cobra.Command, args []string) error {
	m, err := openLayoutManager()
	if err != nil {
		return err
	}
	id, ok := m.FindLayoutByName(args[0])
	if !ok {
		return fmt.Errorf("layout %q not found", args[0])
	}
	if err := m.ExportLayout(id, args[1]); err != nil {
		return err
	}
	fmt.Printf("Exported layout %q to %s.\n", args[0], args[1])
	return nil
}

func runLayoutsImport(cmd *cobra.Command, args []string) error {
	m, err := openLayoutManager()
	if err != nil {
		return err
	}
	id, err := m.ImportLayout(args[0])
	if err != nil {
		return err
	}
	for _, l := range m.SavedLayouts() {
		if l.ID == id {
			fmt.Printf("Imported layout %q (%s).\n", l.Name, l.ID)
			return nil
		}
	}
	fmt.Printf("Imported layout %s.\n", id)
	return nil
}
