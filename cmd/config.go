package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"inv/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the vault configuration",
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	RunE:  runConfigEdit,
}

func init() {
	configCmd.AddCommand(configEditCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("File", appVault.ConfigPath))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("serial_length", fmt.Sprintf("%d", appConfig.SerialLength)))
	fmt.Println(ui.RenderKeyValue("git_auto_init", fmt.Sprintf("%t", appConfig.GitAutoInit)))
	fmt.Println(ui.RenderKeyValue("color_theme", appConfig.ColorTheme))
	fmt.Println(ui.RenderKeyValue("table_width", fmt.Sprintf("%d", appConfig.TableWidth)))
	fmt.Println(ui.RenderKeyValue("history_limit", fmt.Sprintf("%d", appConfig.HistoryLimit)))
	fmt.Println(ui.RenderKeyValue("default_sort", appConfig.DefaultSort))
	fmt.Println(ui.RenderKeyValue("reverse_sort", fmt.Sprintf("%t", appConfig.ReverseSort)))
	fmt.Println(ui.RenderKeyValue("watch_debounce_ms", fmt.Sprintf("%d", appConfig.WatchDebounceMS)))
	fmt.Println(ui.RenderKeyValue("stats_report_path", appConfig.StatsReportPath))
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := appVault.ConfigPath
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("config file not found at %s", path)
	}

	fmt.Println(ui.FormatInfo("Opening config: " + path))

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}
