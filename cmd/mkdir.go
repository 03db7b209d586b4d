package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/internal/core/services"
	"inv/pkg/ui"
)

var (
	mkdirMessage string
	mkdirDryRun  bool
)

// mkdirCmd represents the mkdir command
var mkdirCmd = &cobra.Command{
	Use:   "mkdir DIRECTORY...",
	Short: "Create new containers",
	Long: `Create one or more containers (directories) in the vault.
Missing parent directories are created along the way.

Examples:
  inv mkdir warehouse
  inv mkdir office/shelf_1 office/shelf_2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMkdir,
}

func init() {
	mkdirCmd.Flags().StringVarP(&mkdirMessage, "message", "m", "", "Commit message")
	mkdirCmd.Flags().BoolVar(&mkdirDryRun, "dry-run", false, "Show what would happen without changing anything")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	resp, err := inventoryService.CreateContainers(getContext(), services.MkdirRequest{
		Paths:   args,
		Message: mkdirMessage,
		DryRun:  mkdirDryRun,
	})
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create directories"))
		return err
	}

	printOperationResult(resp, mkdirDryRun)
	return nil
}
