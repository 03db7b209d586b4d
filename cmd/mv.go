package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/domain"
	"inv/internal/core/services"
	"inv/pkg/ui"
)

var (
	mvMessage string
	mvDryRun  bool
)

// mvCmd represents the mv command
var mvCmd = &cobra.Command{
	Use:   "mv SOURCE... DESTINATION",
	Short: "Move assets and containers",
	Long: `Move assets and containers into an existing destination container.
Sources may be paths or glob patterns; identity and attributes are
preserved across the move.

When the destination does not exist, its parent does, and the single
source is a container, the container is renamed instead.

Examples:
  inv mv office/desk_1/laptop_apple_macbook.9r32he storage
  inv mv 'warehouse/shelf_*' basement
  inv mv office/desk_1 office/standing_desk`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMv,
}

func init() {
	mvCmd.Flags().StringVarP(&mvMessage, "message", "m", "", "Commit message")
	mvCmd.Flags().BoolVar(&mvDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runMv(cmd *cobra.Command, args []string) error {
	sources := args[:len(args)-1]
	destination := args[len(args)-1]

	selectors := make([]domain.Selector, 0, len(sources))
	for _, src := range sources {
		sel, err := domain.NewSelector(src, nil)
		if err != nil {
			return err
		}
		selectors = append(selectors, sel)
	}

	resp, err := inventoryService.Move(getContext(), services.MoveRequest{
		Sources:     selectors,
		Destination: destination,
		Message:     mvMessage,
		DryRun:      mvDryRun,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to move"))
		return err
	}

	printOperationResult(resp, mvDryRun)
	return nil
}
