package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/attrs"
	"inv/pkg/ui"
)

var (
	setPaths   []string
	setFilters []string
	setMessage string
	setDryRun  bool
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set KEY=VALUE... [flags]",
	Short: "Set attributes on matched assets",
	Long: `Merge attributes into every asset matched by --path and --filter.
Given keys overwrite existing values; all other attributes are kept.
Without --path, every asset in the vault is matched.

Values are read as YAML scalars, so numbers and booleans come out typed.

Examples:
  inv set os=ventura --path office/desk_1/laptop_apple_macbook.9r32he
  inv set usb_ports=3 --path '**' --filter type=laptop
  inv set warranty=2027-01-31 --path 'warehouse/**' --filter make=dell`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringArrayVarP(&setPaths, "path", "p", nil, "Asset path or glob pattern (repeatable)")
	setCmd.Flags().StringArrayVarP(&setFilters, "filter", "f", nil, "key=value filter on matched assets (repeatable)")
	setCmd.Flags().StringVarP(&setMessage, "message", "m", "", "Commit message")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runSet(cmd *cobra.Command, args []string) error {
	patch, err := attrs.ParsePairs(args)
	if err != nil {
		return err
	}

	selectors, err := parseSelectors(setPaths, setFilters)
	if err != nil {
		return err
	}

	resp, err := inventoryService.SetAttributes(getContext(), services.SetRequest{
		Selectors: selectors,
		Patch:     patch,
		Message:   setMessage,
		DryRun:    setDryRun,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to set attributes"))
		return err
	}

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Matched %d asset(s), modified %d", resp.Matched, len(resp.Modified))))
	printOperationResult(&resp.OperationResponse, setDryRun)
	return nil
}
