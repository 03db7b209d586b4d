package cmd

import (
	"github.com/spf13/cobra"
)

// gitCmd represents the git command
var gitCmd = &cobra.Command{
	Use:   "git [args...]",
	Short: "Run git commands within the vault",
	Long: `Run git commands within the vault directory.

Examples:
  # Check the status of the vault repository
  inv git status

  # Push the inventory to a remote
  inv git push

  # Inspect one operation commit
  inv git show HEAD`,
	Args: cobra.ArbitraryArgs,
	RunE: runGitPassthrough,
}

func runGitPassthrough(cmd *cobra.Command, args []string) error {
	return gitService.Passthrough(getContext(), args)
}
