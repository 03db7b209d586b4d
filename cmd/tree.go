package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"inv/pkg/ui"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree [DIRECTORY]",
	Short: "Show the container hierarchy",
	Long: `Render the vault (or one container) as a tree: containers branch,
asset names are the leaves.

Examples:
  inv tree
  inv tree warehouse`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func runTree(cmd *cobra.Command, args []string) error {
	root := ""
	if len(args) > 0 {
		root = args[0]
	}

	out, err := treeService.Render(getContext(), root)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to render tree"))
		return err
	}

	fmt.Print(out)
	return nil
}
