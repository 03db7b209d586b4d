package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/ui"
)

var (
	unsetPaths   []string
	unsetFilters []string
	unsetMessage string
	unsetDryRun  bool
)

// unsetCmd represents the unset command
var unsetCmd = &cobra.Command{
	Use:   "unset KEY... [flags]",
	Short: "Remove attributes from matched assets",
	Long: `Delete the given attribute keys from every asset matched by --path
and --filter. Keys absent on a matched asset are skipped for it. The
name keys (type, make, model, serial) cannot be unset.

Examples:
  inv unset os --path office/desk_1/laptop_apple_macbook.9r32he
  inv unset warranty display_size --path 'warehouse/**'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUnset,
}

func init() {
	unsetCmd.Flags().StringArrayVarP(&unsetPaths, "path", "p", nil, "Asset path or glob pattern (repeatable)")
	unsetCmd.Flags().StringArrayVarP(&unsetFilters, "filter", "f", nil, "key=value filter on matched assets (repeatable)")
	unsetCmd.Flags().StringVarP(&unsetMessage, "message", "m", "", "Commit message")
	unsetCmd.Flags().BoolVar(&unsetDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runUnset(cmd *cobra.Command, args []string) error {
	selectors, err := parseSelectors(unsetPaths, unsetFilters)
	if err != nil {
		return err
	}

	resp, err := inventoryService.UnsetAttributes(getContext(), services.UnsetRequest{
		Selectors: selectors,
		Keys:      args,
		Message:   unsetMessage,
		DryRun:    unsetDryRun,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to unset attributes"))
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Matched %d asset(s), modified %d", resp.Matched, len(resp.Modified))))
	printOperationResult(&resp.OperationResponse, unsetDryRun)
	return nil
}
