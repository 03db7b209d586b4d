package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/ui"
)

var (
	rmYes     bool
	rmMessage string
	rmDryRun  bool
)

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm PATH...",
	Short: "Remove assets and containers",
	Long: `Remove matched assets and containers from the vault. Removing a
container removes everything inside it. The files are gone from the
working tree, but git history still has them.

Examples:
  inv rm storage/laptop_apple_macbook.9r32he
  inv rm 'warehouse/**' --filter type=monitor
  inv rm office/desk_3 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRm,
}

var rmFilters []string

func init() {
	rmCmd.Flags().StringArrayVarP(&rmFilters, "filter", "f", nil, "key=value filter on matched assets (repeatable)")
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "Skip the confirmation prompt")
	rmCmd.Flags().StringVarP(&rmMessage, "message", "m", "", "Commit message")
	rmCmd.Flags().BoolVar(&rmDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runRm(cmd *cobra.Command, args []string) error {
	selectors, err := parseSelectors(args, rmFilters)
	if err != nil {
		return err
	}
	ctx := getContext()

	// Plan first as a dry run, so the confirmation shows the full blast
	// radius including container descendants.
	preview, err := inventoryService.Remove(ctx, services.RemoveRequest{
		Selectors: selectors,
		DryRun:    true,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to remove"))
		return err
	}
	if preview.Record == "" {
		fmt.Println(ui.FormatInfo("Nothing to do"))
		return nil
	}
	if rmDryRun {
		printOperationResult(&preview.OperationResponse, true)
		return nil
	}

	if !rmYes {
		fmt.Println(ui.FormatWarning("You are about to remove:"))
		fmt.Print(ui.RenderList(preview.Paths))
		if !confirm("Remove?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	resp, err := inventoryService.Remove(ctx, services.RemoveRequest{
		Selectors: selectors,
		Message:   rmMessage,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to remove"))
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Removed %d asset(s), %d container(s)", len(resp.Assets), len(resp.Containers))))
	printOperationResult(&resp.OperationResponse, false)
	return nil
}
