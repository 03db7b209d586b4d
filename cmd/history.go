package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"inv/pkg/ui"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [PATH]",
	Short: "Show the change history",
	Long: `Show the git history of the vault, or of one asset or container.
Renames are followed.

Examples:
  inv history
  inv history office/desk_1/laptop_apple_macbook.9r32he
  inv history warehouse -n 50`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Maximum number of entries (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	target := ""
	if len(args) > 0 {
		target = args[0]
	}
	limit := historyLimit
	if limit <= 0 {
		limit = appConfig.HistoryLimit
	}

	out, err := gitService.Log(getContext(), target, limit)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to read history"))
		return err
	}

	if strings.TrimSpace(out) == "" {
		fmt.Println(ui.FormatWarning("No history found"))
		return nil
	}

	if target != "" {
		fmt.Println(ui.FormatTitle("History: " + target))
	} else {
		fmt.Println(ui.FormatTitle("History"))
	}
	fmt.Println()
	fmt.Print(out)
	return nil
}
